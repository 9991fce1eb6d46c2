// Package diagnostics enriches individual violations with the context a
// human needs to debug them: chart and environment metadata, related
// findings from the same plugin, and generic debugging hints. It also
// provides name-suggestion helpers for misspelled plugin references.
package diagnostics
