// Package storage provides run-record persistence backends: an
// in-memory store for tests and short-lived runs, and a SQLite store for
// durable history.
package storage
