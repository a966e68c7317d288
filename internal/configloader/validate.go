package configloader

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/yaklabco/markbridge/pkg/config"
)

// ValidationError describes one invalid configuration value.
type ValidationError struct {
	// Field is the dotted path of the field, e.g. "serialize.bullet_marker".
	Field string

	Value   any
	Message string

	// FilePath is the config file the value came from, if known.
	FilePath string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 3)
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult collects validation findings.
type ValidationResult struct {
	// Errors prevent the configuration from being used.
	Errors []ValidationError

	// Warnings are reported but do not stop loading.
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings reports whether there are warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns errors then warnings, each prefixed with its level.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	bulletMarkers   = []string{"-", "*", "+"}
	emphasisMarkers = []string{"*", "_"}
	fenceChars      = []string{"`", "~"}
	backupModes     = []string{"sidecar", "none"}
	outputFormats   = []config.OutputFormat{
		config.FormatText,
		config.FormatJSON,
		config.FormatDiff,
		config.FormatSummary,
	}
)

// oneOf checks an optional enumerated string value.
func oneOf(r *ValidationResult, field, value string, allowed []string) {
	if value != "" && !slices.Contains(allowed, value) {
		r.fail(field, value, "invalid value %q; must be one of: %s", value, strings.Join(allowed, ", "))
	}
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	oneOf(result, "serialize.bullet_marker", cfg.Serialize.BulletMarker, bulletMarkers)
	oneOf(result, "serialize.emphasis_marker", cfg.Serialize.EmphasisMarker, emphasisMarkers)
	oneOf(result, "serialize.fence_char", cfg.Serialize.FenceChar, fenceChars)
	oneOf(result, "backups.mode", cfg.Backups.Mode, backupModes)

	if cfg.Format != "" && !slices.Contains(outputFormats, cfg.Format) {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, json, diff, summary", cfg.Format)
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.Editor.Debounce < 0 {
		result.fail("editor.debounce", cfg.Editor.Debounce, "debounce must not be negative")
	}

	for i, pattern := range cfg.Ignore {
		if _, err := path.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	for i, ext := range cfg.Extensions {
		field := fmt.Sprintf("extensions[%d]", i)
		switch {
		case !strings.HasPrefix(ext, ".") || len(ext) < 2:
			result.fail(field, ext, "extension %q must start with a dot", ext)
		case ext != strings.ToLower(ext):
			result.warn(field, ext, "extension %q is matched case-insensitively", ext)
		}
	}

	if cfg.Write && cfg.Check {
		result.warn("write", true, "check mode is set; files will not be written")
	}

	return result
}

// ValidateWithFile validates cfg and records filePath on every finding.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// IsValidFormat reports whether f is a supported output format.
func IsValidFormat(f config.OutputFormat) bool {
	return slices.Contains(outputFormats, f)
}
