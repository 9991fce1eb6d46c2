// Package config defines the chartward configuration structure and
// loading. Configuration is read from a YAML file, filled in with
// defaults, overridden by CHARTWARD_* environment variables, and
// validated before use.
package config
