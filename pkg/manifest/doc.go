// Package manifest models Kubernetes manifests as they come out of chart
// generation: schemaless YAML documents. It provides multi-document
// decoding, file and directory loading, and a debounced filesystem watcher
// for re-validating charts as they change on disk.
package manifest
