// Package logging constructs the slog logger used across chartward from
// declarative configuration: level, output format, and source
// annotation.
package logging
