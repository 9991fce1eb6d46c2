// Package retention enforces retention policies on validation run
// history: age-based and count-based pruning, optionally on a cron
// schedule.
package retention
