package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadPathSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pod.yaml", "kind: Pod\nmetadata:\n  name: web\n")

	ms, err := NewLoader(nil).LoadPath(path)
	if err != nil {
		t.Fatalf("LoadPath() error = %v", err)
	}
	if len(ms) != 1 || ms[0].Kind() != "Pod" {
		t.Errorf("manifests = %+v, want one Pod", ms)
	}
}

func TestLoadPathDirectoryLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b-service.yaml", "kind: Service\nmetadata:\n  name: svc\n")
	writeFile(t, dir, "a-pod.yaml", "kind: Pod\nmetadata:\n  name: web\n")
	writeFile(t, dir, "nested/c-job.yml", "kind: Job\nmetadata:\n  name: job\n")
	writeFile(t, dir, "README.md", "not a manifest")
	writeFile(t, dir, "values.json", `{"kind": "ignored"}`)

	ms, err := NewLoader(nil).LoadPath(dir)
	if err != nil {
		t.Fatalf("LoadPath() error = %v", err)
	}

	var kinds []string
	for _, m := range ms {
		kinds = append(kinds, m.Kind())
	}
	// Walk order is lexical over full paths, so a-pod before b-service
	// before nested/c-job; non-YAML files are skipped.
	want := []string{"Pod", "Service", "Job"}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestLoadPathMissing(t *testing.T) {
	if _, err := NewLoader(nil).LoadPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadPath() succeeded on a missing path")
	}
}

func TestLoadPathBadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "kind: [unterminated")

	if _, err := NewLoader(nil).LoadPath(dir); err == nil {
		t.Fatal("LoadPath() succeeded on invalid YAML")
	}
}
