// Package history records validation runs for audit and trend analysis.
// Each Validate call can be condensed into a RunRecord and persisted
// asynchronously, so validation latency never depends on storage.
package history
