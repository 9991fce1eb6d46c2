package builtin

import (
	"context"
	"fmt"
	"strings"

	"helmsman-hq/chartward/pkg/manifest"
	"helmsman-hq/chartward/pkg/policy"
)

// ImageTagPlugin warns about container images with floating tags:
// untagged references and tags like "latest" make rollbacks and audit
// trails unreliable.
type ImageTagPlugin struct{}

// NewImageTag creates the image tag plugin.
func NewImageTag() *ImageTagPlugin {
	return &ImageTagPlugin{}
}

func (p *ImageTagPlugin) Name() string    { return "image-tag" }
func (p *ImageTagPlugin) Version() string { return "1.0.0" }

func (p *ImageTagPlugin) Description() string {
	return "Warns about container images using floating or missing tags"
}

func (p *ImageTagPlugin) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"deniedTags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"additionalProperties": false,
	}
}

func (p *ImageTagPlugin) Metadata() *policy.Metadata {
	return &policy.Metadata{
		DefaultConfig: map[string]any{
			"deniedTags": []any{"latest"},
		},
		Author: "chartward",
		Tags:   []string{"images", "supply-chain"},
	}
}

// Validate checks every workload container image reference.
func (p *ImageTagPlugin) Validate(ctx context.Context, manifests []manifest.Manifest, vc *policy.Context) ([]policy.Violation, error) {
	denied := configStrings(vc, "deniedTags", []string{"latest"})

	var violations []policy.Violation
	for _, m := range manifests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, c := range containersOf(m) {
			image, ok := c.stringField("image")
			if !ok || image == "" {
				continue
			}

			tag := imageTag(image)
			if tag == "" {
				violations = append(violations, policy.Violation{
					Severity:     policy.SeverityWarning,
					Message:      fmt.Sprintf("container %q image %q has no tag", c.name(), image),
					ResourcePath: m.ResourcePath(),
					Field:        c.path + ".image",
					Suggestion:   "Pin the image to an explicit tag or digest",
				})
				continue
			}

			for _, d := range denied {
				if tag == d {
					violations = append(violations, policy.Violation{
						Severity:     policy.SeverityWarning,
						Message:      fmt.Sprintf("container %q image %q uses denied tag %q", c.name(), image, tag),
						ResourcePath: m.ResourcePath(),
						Field:        c.path + ".image",
						Suggestion:   "Pin the image to an immutable tag or digest",
					})
					break
				}
			}
		}
	}

	return violations, nil
}

// imageTag extracts the tag from an image reference, or "" when the
// reference is untagged. Digest references count as pinned.
func imageTag(image string) string {
	if i := strings.LastIndex(image, "@"); i >= 0 {
		return image[i+1:]
	}

	// A colon after the last slash separates the tag; a colon before it
	// is a registry port.
	slash := strings.LastIndex(image, "/")
	colon := strings.LastIndex(image, ":")
	if colon > slash {
		return image[colon+1:]
	}
	return ""
}
