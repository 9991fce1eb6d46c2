package manifest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Loader loads manifests from YAML files on disk.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new manifest loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadPath loads manifests from a file or directory. Directories are
// walked recursively and every .yaml/.yml file is decoded; files are
// processed in lexical order so output is stable across runs.
func (l *Loader) LoadPath(path string) ([]Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %q: %w", path, err)
	}

	if !info.IsDir() {
		return l.loadFile(path)
	}

	var files []string
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %q: %w", path, err)
	}
	sort.Strings(files)

	var manifests []Manifest
	for _, f := range files {
		ms, err := l.loadFile(f)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, ms...)
	}

	l.logger.Info("loaded manifests",
		"path", path,
		"file_count", len(files),
		"manifest_count", len(manifests),
	)

	return manifests, nil
}

// loadFile decodes all documents from a single YAML file.
func (l *Loader) loadFile(path string) ([]Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest file %q: %w", path, err)
	}
	defer f.Close()

	manifests, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}

	return manifests, nil
}
