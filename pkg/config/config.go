// Package config defines the configuration types for markbridge and maps
// them onto parser, serializer and editor options.
package config

import (
	"time"

	"github.com/yaklabco/markbridge/pkg/editor"
	"github.com/yaklabco/markbridge/pkg/markup"
	"github.com/yaklabco/markbridge/pkg/serialize"
)

// BackupsConfig controls backup behavior when writing files.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar" or "none"
}

// OutputFormat specifies how fmt results are reported.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// SerializeConfig holds the Markup writing style.
type SerializeConfig struct {
	BulletMarker   string `mapstructure:"bullet_marker" yaml:"bullet_marker"`
	EmphasisMarker string `mapstructure:"emphasis_marker" yaml:"emphasis_marker"`
	FenceChar      string `mapstructure:"fence_char" yaml:"fence_char"`
}

// EditorConfig holds defaults for editor bindings.
type EditorConfig struct {
	Debounce    time.Duration `mapstructure:"debounce" yaml:"debounce"`
	ReadOnly    bool          `mapstructure:"read_only" yaml:"read_only"`
	Placeholder string        `mapstructure:"placeholder" yaml:"placeholder"`
}

// Config is the root configuration structure for markbridge.
type Config struct {
	// LooseBreaks turns single newlines into hard breaks when parsing.
	// Nil means the default (on).
	LooseBreaks *bool `mapstructure:"loose_breaks" yaml:"loose_breaks,omitempty"`

	// Serialize controls the Markup writing style.
	Serialize SerializeConfig `mapstructure:"serialize" yaml:"serialize"`

	// Editor holds defaults for editor bindings.
	Editor EditorConfig `mapstructure:"editor" yaml:"editor"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Extensions lists the file extensions treated as Markup.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Backups configures backup behavior when writing.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Check reports files that are not canonical without writing them.
	Check bool `mapstructure:"-" yaml:"-"`

	// Write rewrites files in place.
	Write bool `mapstructure:"-" yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// NoBackups disables backup creation when writing.
	NoBackups bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	loose := true
	return &Config{
		LooseBreaks: &loose,
		Serialize: SerializeConfig{
			BulletMarker:   "-",
			EmphasisMarker: "*",
			FenceChar:      "`",
		},
		Editor: EditorConfig{
			Debounce: editor.DefaultDebounce,
		},
		Extensions: []string{".md", ".markdown"},
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}

// LooseBreaksEnabled reports whether loose line breaks are on.
func (c *Config) LooseBreaksEnabled() bool {
	return c == nil || c.LooseBreaks == nil || *c.LooseBreaks
}

// ParseOptions returns the parser options described by the configuration.
func (c *Config) ParseOptions() []markup.Option {
	return []markup.Option{markup.WithLooseBreaks(c.LooseBreaksEnabled())}
}

// SerializeOptions returns the serializer options described by the
// configuration. Empty or unsupported values leave the defaults in place.
func (c *Config) SerializeOptions() []serialize.Option {
	if c == nil {
		return nil
	}
	var opts []serialize.Option
	if b, ok := singleByte(c.Serialize.BulletMarker); ok {
		opts = append(opts, serialize.WithBulletMarker(b))
	}
	if b, ok := singleByte(c.Serialize.EmphasisMarker); ok {
		opts = append(opts, serialize.WithEmphasisMarker(b))
	}
	if b, ok := singleByte(c.Serialize.FenceChar); ok {
		opts = append(opts, serialize.WithFenceChar(b))
	}
	return opts
}

// EditorOptions returns editor binding options for the configuration.
func (c *Config) EditorOptions() editor.Options {
	if c == nil {
		return editor.Options{}
	}
	return editor.Options{
		Debounce:    c.Editor.Debounce,
		ReadOnly:    c.Editor.ReadOnly,
		Placeholder: c.Editor.Placeholder,
		Parse:       c.ParseOptions(),
		Serialize:   c.SerializeOptions(),
	}
}

func singleByte(s string) (byte, bool) {
	if len(s) != 1 {
		return 0, false
	}
	return s[0], true
}
