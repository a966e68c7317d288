package configloader

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/markbridge/pkg/config"
)

// EnvPrefix is the prefix for all markbridge environment variables.
const EnvPrefix = "MARKBRIDGE_"

// envVar binds one environment variable to a config field.
type envVar struct {
	suffix string
	help   string
	apply  func(cfg *config.Config, value string) error
}

//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []envVar{
	{"LOOSE_BREAKS", "Treat single newlines as hard breaks: true or false", boolField(func(c *config.Config, v bool) {
		c.LooseBreaks = &v
	})},
	{"BULLET_MARKER", "Bullet list marker: -, * or +", stringField(func(c *config.Config, v string) {
		c.Serialize.BulletMarker = v
	})},
	{"EMPHASIS_MARKER", "Emphasis marker: * or _", stringField(func(c *config.Config, v string) {
		c.Serialize.EmphasisMarker = v
	})},
	{"FENCE_CHAR", "Code fence character: ` or ~", stringField(func(c *config.Config, v string) {
		c.Serialize.FenceChar = v
	})},
	{"EDITOR_DEBOUNCE", "Editor debounce window, e.g. 300ms", durationField(func(c *config.Config, v time.Duration) {
		c.Editor.Debounce = v
	})},
	{"EDITOR_READ_ONLY", "Start editor bindings read-only: true or false", boolField(func(c *config.Config, v bool) {
		c.Editor.ReadOnly = v
	})},
	{"EDITOR_PLACEHOLDER", "Placeholder shown in empty editors", stringField(func(c *config.Config, v string) {
		c.Editor.Placeholder = v
	})},
	{"JOBS", "Number of parallel workers (0 = auto)", intField(func(c *config.Config, v int) {
		c.Jobs = v
	})},
	{"FORMAT", "Output format: text, json, diff or summary", stringField(func(c *config.Config, v string) {
		c.Format = config.OutputFormat(v)
	})},
	{"BACKUPS_ENABLED", "Enable backups when writing: true or false", boolField(func(c *config.Config, v bool) {
		c.Backups.Enabled = v
	})},
	{"BACKUPS_MODE", "Backup mode: sidecar or none", stringField(func(c *config.Config, v string) {
		c.Backups.Mode = v
	})},
	{"IGNORE", "Comma-separated list of ignore patterns", sliceField(func(c *config.Config, v []string) {
		c.Ignore = v
	})},
	{"EXTENSIONS", "Comma-separated list of Markup file extensions", sliceField(func(c *config.Config, v []string) {
		c.Extensions = v
	})},
	{"NO_BACKUPS", "Disable backups: true or false", boolField(func(c *config.Config, v bool) {
		c.NoBackups = v
	})},
}

// LoadFromEnv applies MARKBRIDGE_* environment variables to cfg. Unset or
// empty variables are ignored.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.LookupEnv)
}

func loadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}
	for _, ev := range envVars {
		name := EnvPrefix + ev.suffix
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}
		if err := ev.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func stringField(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(c *config.Config, value string) error {
		set(c, value)
		return nil
	}
}

func boolField(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(c *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(c, b)
		return nil
	}
}

func intField(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(c *config.Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		set(c, i)
		return nil
	}
}

func durationField(set func(*config.Config, time.Duration)) func(*config.Config, string) error {
	return func(c *config.Config, value string) error {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q", value)
		}
		set(c, d)
		return nil
	}
}

func sliceField(set func(*config.Config, []string)) func(*config.Config, string) error {
	return func(c *config.Config, value string) error {
		set(c, splitList(value))
		return nil
	}
}

// splitList splits a comma-separated value, trimming and dropping empty
// elements.
func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ListEnvVars returns the supported environment variables and their
// descriptions, sorted by name.
func ListEnvVars() [][2]string {
	out := make([][2]string, 0, len(envVars))
	for _, ev := range envVars {
		out = append(out, [2]string{EnvPrefix + ev.suffix, ev.help})
	}
	slices.SortFunc(out, func(a, b [2]string) int { return strings.Compare(a[0], b[0]) })
	return out
}
