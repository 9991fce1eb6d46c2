package policy

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestPluginErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &PluginError{Plugin: "security-context", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach the cause")
	}
	if !strings.Contains(err.Error(), "security-context") {
		t.Errorf("Error() = %q, want plugin name included", err.Error())
	}
}

func TestTimeoutErrorMessage(t *testing.T) {
	err := &TimeoutError{Plugin: "resource-limits", Timeout: 5 * time.Second}
	msg := err.Error()
	if !strings.Contains(msg, "resource-limits") || !strings.Contains(msg, "5s") {
		t.Errorf("Error() = %q, want plugin and timeout included", msg)
	}
}

func TestOrchestrationErrorUnwrapsAllCauses(t *testing.T) {
	c1 := errors.New("first failure")
	c2 := errors.New("second failure")
	err := &OrchestrationError{
		Plugins: []string{"alpha", "beta"},
		Causes:  []error{c1, c2},
	}

	if !errors.Is(err, c1) || !errors.Is(err, c2) {
		t.Error("errors.Is did not reach all causes")
	}
	if !strings.Contains(err.Error(), "alpha, beta") {
		t.Errorf("Error() = %q, want failed plugin names listed", err.Error())
	}
}

func TestRegistrationErrorMessage(t *testing.T) {
	withPlugin := &RegistrationError{Plugin: "alpha", Reason: "duplicate"}
	if !strings.Contains(withPlugin.Error(), `"alpha"`) {
		t.Errorf("Error() = %q, want plugin name quoted", withPlugin.Error())
	}

	withoutPlugin := &RegistrationError{Reason: "plugin is nil"}
	if !strings.Contains(withoutPlugin.Error(), "plugin is nil") {
		t.Errorf("Error() = %q, want reason included", withoutPlugin.Error())
	}
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := &ConfigurationError{
		Plugin: "image-tag",
		Path:   "/deniedTags",
		Errors: []string{"expected array", "got string"},
	}
	msg := err.Error()
	for _, want := range []string{"image-tag", "/deniedTags", "expected array", "got string"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestRetryExhaustedErrorUnwrap(t *testing.T) {
	last := errors.New("still failing")
	err := &RetryExhaustedError{Plugin: "alpha", Attempts: 3, LastErr: last}

	if !errors.Is(err, last) {
		t.Error("errors.Is did not reach the last error")
	}
	if !strings.Contains(err.Error(), "3") {
		t.Errorf("Error() = %q, want attempt count included", err.Error())
	}
}

func TestDegradationErrorUnwrap(t *testing.T) {
	causes := []error{
		&PluginError{Plugin: "alpha", Cause: errors.New("boom")},
		&TimeoutError{Plugin: "beta", Timeout: time.Second},
	}
	err := &DegradationError{Causes: causes}

	var pe *PluginError
	if !errors.As(err, &pe) {
		t.Error("errors.As did not find the wrapped PluginError")
	}
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Error("errors.As did not find the wrapped TimeoutError")
	}
}

func TestErrorsWrapAsExpectedThroughFmt(t *testing.T) {
	inner := &TimeoutError{Plugin: "alpha", Timeout: time.Second}
	wrapped := fmt.Errorf("run aborted: %w", inner)

	var te *TimeoutError
	if !errors.As(wrapped, &te) {
		t.Fatal("errors.As did not find TimeoutError through fmt wrapping")
	}
	if te.Plugin != "alpha" {
		t.Errorf("unwrapped plugin = %q, want alpha", te.Plugin)
	}
}
