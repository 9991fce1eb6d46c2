package builtin

import (
	"context"
	"strings"
	"testing"

	"helmsman-hq/chartward/pkg/policy"
)

func TestImageTagParser(t *testing.T) {
	tests := []struct {
		image string
		want  string
	}{
		{"nginx", ""},
		{"nginx:latest", "latest"},
		{"nginx:1.25", "1.25"},
		{"registry.example.com/team/app", ""},
		{"registry.example.com/team/app:2.0.0", "2.0.0"},
		{"registry:5000/app", ""},
		{"registry:5000/app:1.0", "1.0"},
		{"app@sha256:deadbeef", "sha256:deadbeef"},
		{"registry:5000/app@sha256:deadbeef", "sha256:deadbeef"},
	}

	for _, tt := range tests {
		if got := imageTag(tt.image); got != tt.want {
			t.Errorf("imageTag(%q) = %q, want %q", tt.image, got, tt.want)
		}
	}
}

func TestImageTagUntagged(t *testing.T) {
	const doc = `
apiVersion: v1
kind: Pod
metadata:
  name: web
spec:
  containers:
    - name: app
      image: nginx
`
	p := NewImageTag()
	vs, err := p.Validate(context.Background(), mustDecode(t, doc), ctxWith(nil))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if len(vs) != 1 {
		t.Fatalf("violations = %d, want 1\n%+v", len(vs), vs)
	}
	v := vs[0]
	if v.Severity != policy.SeverityWarning {
		t.Errorf("severity = %q, want warning", v.Severity)
	}
	if !strings.Contains(v.Message, "has no tag") {
		t.Errorf("message = %q", v.Message)
	}
	if v.Field != "spec.containers.image" {
		t.Errorf("field = %q", v.Field)
	}
}

func TestImageTagDeniedLatest(t *testing.T) {
	const doc = `
apiVersion: v1
kind: Pod
metadata:
  name: web
spec:
  containers:
    - name: app
      image: nginx:latest
`
	p := NewImageTag()
	vs, err := p.Validate(context.Background(), mustDecode(t, doc), ctxWith(nil))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(vs) != 1 {
		t.Fatalf("violations = %d, want 1\n%+v", len(vs), vs)
	}
	if !strings.Contains(vs[0].Message, `denied tag "latest"`) {
		t.Errorf("message = %q", vs[0].Message)
	}
}

func TestImageTagPinnedReferences(t *testing.T) {
	const doc = `
apiVersion: v1
kind: Pod
metadata:
  name: web
spec:
  containers:
    - name: tagged
      image: registry.example.com/app:1.25.3
    - name: digest
      image: registry.example.com/app@sha256:0f2a7c
`
	p := NewImageTag()
	vs, err := p.Validate(context.Background(), mustDecode(t, doc), ctxWith(nil))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(vs) != 0 {
		t.Errorf("violations = %+v, want none for pinned references", vs)
	}
}

func TestImageTagCustomDeniedTags(t *testing.T) {
	const doc = `
apiVersion: v1
kind: Pod
metadata:
  name: web
spec:
  containers:
    - name: app
      image: registry.example.com/app:dev
`
	p := NewImageTag()

	vs, err := p.Validate(context.Background(), mustDecode(t, doc), ctxWith(nil))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(vs) != 0 {
		t.Errorf("violations = %+v, want none with default denied tags", vs)
	}

	vc := ctxWith(map[string]any{"deniedTags": []any{"dev", "latest"}})
	vs, err = p.Validate(context.Background(), mustDecode(t, doc), vc)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(vs) != 1 {
		t.Fatalf("violations = %d, want 1 with dev denied\n%+v", len(vs), vs)
	}
}

func TestImageTagIgnoresContainersWithoutImage(t *testing.T) {
	const doc = `
apiVersion: v1
kind: Pod
metadata:
  name: web
spec:
  containers:
    - name: app
`
	p := NewImageTag()
	vs, err := p.Validate(context.Background(), mustDecode(t, doc), ctxWith(nil))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(vs) != 0 {
		t.Errorf("violations = %+v, want none", vs)
	}
}
