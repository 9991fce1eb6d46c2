// Package builtin bundles the validation plugins that ship with
// chartward: workload security context checks, resource limit checks,
// and image tag hygiene. They double as reference implementations of the
// plugin contract, including config schemas and default configuration.
package builtin
