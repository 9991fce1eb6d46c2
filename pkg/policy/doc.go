// Package policy defines the plugin contract for chart validation and the
// bookkeeping around it: the violation and result model shared by the
// engine and the formatters, the plugin registry, the configuration
// loader, and the structured error taxonomy.
//
// A plugin is a named, versioned unit of validation logic. It consumes a
// manifest batch and produces violations; everything else (scheduling,
// timeouts, degradation, aggregation) is the engine's concern, see
// helmsman-hq/chartward/pkg/policy/engine.
package policy
