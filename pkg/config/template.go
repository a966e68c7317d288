package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value instead of a
	// commented minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return NewConfig().ToYAMLWithHeader(DefaultTemplateHeader())
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Treat single newlines as hard line breaks when reading Markup
loose_breaks: true

# Markup writing style
serialize:
  # Bullet list marker: "-", "*" or "+"
  bullet_marker: "-"
  # Emphasis delimiter: "*" or "_"
  emphasis_marker: "*"
  # Code fence character: "` + "`" + `" or "~"
  fence_char: "` + "`" + `"

# Editor binding defaults
# editor:
#   debounce: 300ms
#   read_only: false
#   placeholder: ""

# File extensions treated as Markup
# extensions:
#   - .md
#   - .markdown

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"

# Backups written before files are rewritten
# backups:
#   enabled: true
#   mode: sidecar
`)

	return buf.Bytes()
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	doc := map[string]any{
		"loose_breaks": cfg.LooseBreaksEnabled(),
		"serialize": map[string]any{
			"bullet_marker":   cfg.Serialize.BulletMarker,
			"emphasis_marker": cfg.Serialize.EmphasisMarker,
			"fence_char":      cfg.Serialize.FenceChar,
		},
		"editor": map[string]any{
			"debounce":    cfg.Editor.Debounce.String(),
			"read_only":   cfg.Editor.ReadOnly,
			"placeholder": cfg.Editor.Placeholder,
		},
		"extensions": cfg.Extensions,
		"ignore":     []string{},
		"backups": map[string]any{
			"enabled": cfg.Backups.Enabled,
			"mode":    cfg.Backups.Mode,
		},
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# markbridge configuration
# See: https://github.com/yaklabco/markbridge`
}
