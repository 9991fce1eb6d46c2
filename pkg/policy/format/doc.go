// Package format renders validation results for different audiences: a
// human terminal report, JSON, a compact one-liner, CI workflow
// annotations, and a SARIF interchange document for static-analysis
// tooling.
package format
