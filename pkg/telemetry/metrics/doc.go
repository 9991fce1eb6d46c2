// Package metrics exposes Prometheus instrumentation for validation
// runs. It is only wired up in watch mode, where chartward stays
// resident long enough for scraping to be useful.
package metrics
