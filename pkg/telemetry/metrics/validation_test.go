package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRun(t *testing.T) {
	registry := prometheus.NewRegistry()
	vm := NewValidationMetrics("chartward", registry)

	vm.RecordRun("passed", 15*time.Millisecond)
	vm.RecordRun("passed", 20*time.Millisecond)
	vm.RecordRun("failed", 5*time.Millisecond)

	if got := testutil.ToFloat64(vm.runsTotal.WithLabelValues("passed")); got != 2 {
		t.Errorf("passed runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(vm.runsTotal.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed runs = %v, want 1", got)
	}
}

func TestRecordPluginAndViolation(t *testing.T) {
	registry := prometheus.NewRegistry()
	vm := NewValidationMetrics("chartward", registry)

	vm.RecordPlugin("security-context", "ok", time.Millisecond)
	vm.RecordPlugin("security-context", "ok", time.Millisecond)
	vm.RecordPlugin("image-tag", "timeout", time.Second)
	vm.RecordViolation("security-context", "error")

	if got := testutil.ToFloat64(vm.pluginExecutions.WithLabelValues("security-context", "ok")); got != 2 {
		t.Errorf("security-context ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(vm.pluginExecutions.WithLabelValues("image-tag", "timeout")); got != 1 {
		t.Errorf("image-tag timeout = %v, want 1", got)
	}
	if got := testutil.ToFloat64(vm.violationsTotal.WithLabelValues("security-context", "error")); got != 1 {
		t.Errorf("violations = %v, want 1", got)
	}
}

func TestNamespaceDefault(t *testing.T) {
	registry := prometheus.NewRegistry()
	vm := NewValidationMetrics("", registry)
	vm.RecordRun("passed", time.Millisecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "chartward_validation_runs_total" {
			found = true
		}
	}
	if !found {
		t.Error("chartward_validation_runs_total not registered under default namespace")
	}
}

func TestHandlerServesExposition(t *testing.T) {
	registry := prometheus.NewRegistry()
	vm := NewValidationMetrics("chartward", registry)
	vm.RecordRun("passed", time.Millisecond)
	vm.RecordViolation("image-tag", "warning")

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(registry).ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `chartward_validation_runs_total{outcome="passed"} 1`) {
		t.Errorf("exposition missing runs counter\n%s", body)
	}
	if !strings.Contains(body, `chartward_violations_total{plugin="image-tag",severity="warning"} 1`) {
		t.Errorf("exposition missing violations counter\n%s", body)
	}
}
