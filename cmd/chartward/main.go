// Chartward validates generated Helm chart manifests against
// configurable policy plugins.
//
// Usage:
//
//	# Validate rendered manifests in a directory
//	chartward validate ./rendered --chart my-app --chart-version 1.2.0
//
//	# Re-validate automatically as manifests are regenerated
//	chartward validate ./rendered --watch
//
//	# Machine-readable output for CI pipelines
//	chartward validate ./rendered --format sarif
//
//	# List available policy plugins
//	chartward plugins
//
//	# Inspect past validation runs
//	chartward history list --limit 20
package main

func main() {
	Execute()
}
