package format

import (
	"fmt"

	"helmsman-hq/chartward/pkg/policy"
)

// Formatter renders a validation result as a string. All formatters are
// pure: the same result always renders the same output.
type Formatter interface {
	Format(result *policy.Result) (string, error)
}

// Known formatter names, as accepted by New.
const (
	KindHuman   = "human"
	KindJSON    = "json"
	KindCompact = "compact"
	KindCI      = "ci"
	KindSARIF   = "sarif"
)

// New returns the formatter registered under name.
func New(name string) (Formatter, error) {
	switch name {
	case KindHuman, "", "text", "default":
		return NewHuman(), nil
	case KindJSON:
		return NewJSON(), nil
	case KindCompact:
		return NewCompact(), nil
	case KindCI:
		return NewCI(), nil
	case KindSARIF:
		return NewSARIF(), nil
	}
	return nil, fmt.Errorf("unknown output format %q (known: human, json, compact, ci, sarif)", name)
}
