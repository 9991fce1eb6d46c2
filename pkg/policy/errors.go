package policy

import (
	"fmt"
	"strings"
	"time"
)

// EngineError is a generic orchestration failure. Code and Context are
// optional free-form diagnostics.
type EngineError struct {
	Code    string
	Message string
	Context map[string]any
}

// Error returns the error message.
func (e *EngineError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("policy engine error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("policy engine error: %s", e.Message)
}

// PluginError indicates a plugin's validation logic failed at runtime.
type PluginError struct {
	Plugin string
	Cause  error
}

// Error returns the error message.
func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %q: validation failed: %v", e.Plugin, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *PluginError) Unwrap() error {
	return e.Cause
}

// TimeoutError indicates a plugin exceeded the configured timeout.
type TimeoutError struct {
	Plugin  string
	Timeout time.Duration
}

// Error returns the error message.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("plugin %q: validation timed out after %v", e.Plugin, e.Timeout)
}

// RegistrationError indicates a contract violation or duplicate name at
// registration time. Registration failures are always fatal to the
// registering call, independent of graceful degradation.
type RegistrationError struct {
	Plugin string
	Reason string
}

// Error returns the error message.
func (e *RegistrationError) Error() string {
	if e.Plugin == "" {
		return fmt.Sprintf("plugin registration failed: %s", e.Reason)
	}
	return fmt.Sprintf("plugin %q: registration failed: %s", e.Plugin, e.Reason)
}

// ConfigurationError indicates a plugin's merged configuration failed
// schema validation.
type ConfigurationError struct {
	Plugin string
	Path   string
	Errors []string
}

// Error returns the error message.
func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("plugin %q: invalid configuration", e.Plugin)
	if e.Path != "" {
		msg += fmt.Sprintf(" at %s", e.Path)
	}
	if len(e.Errors) > 0 {
		msg += ": " + strings.Join(e.Errors, "; ")
	}
	return msg
}

// OrchestrationError is the aggregate failure for a batch in which one or
// more plugins failed and graceful degradation was disabled.
type OrchestrationError struct {
	Plugins []string
	Causes  []error
}

// Error returns the error message.
func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("validation failed for %d plugin(s): %s",
		len(e.Plugins), strings.Join(e.Plugins, ", "))
}

// Unwrap returns the underlying per-plugin failures.
func (e *OrchestrationError) Unwrap() []error {
	return e.Causes
}

// RetryExhaustedError indicates all retry attempts for a plugin were
// exhausted. The engine performs no retries itself; this kind is reserved
// for plugins and callers that implement their own retry policy.
type RetryExhaustedError struct {
	Plugin   string
	Attempts int
	LastErr  error
}

// Error returns the error message.
func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("plugin %q: %d retry attempt(s) exhausted: %v", e.Plugin, e.Attempts, e.LastErr)
}

// Unwrap returns the last underlying error.
func (e *RetryExhaustedError) Unwrap() error {
	return e.LastErr
}

// DegradationError wraps multiple degraded-plugin failures as one unit for
// callers that want to inspect them together.
type DegradationError struct {
	Causes []error
}

// Error returns the error message.
func (e *DegradationError) Error() string {
	return fmt.Sprintf("%d plugin failure(s) degraded to violations", len(e.Causes))
}

// Unwrap returns the wrapped failures.
func (e *DegradationError) Unwrap() []error {
	return e.Causes
}
