package configloader

import "github.com/yaklabco/markbridge/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointer values: override overwrites base if non-nil
//   - Slices: override replaces base entirely if override is non-nil
//   - Unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.LooseBreaks != nil {
		loose := *override.LooseBreaks
		result.LooseBreaks = &loose
	}

	result.Serialize = mergeSerialize(base.Serialize, override.Serialize)
	result.Editor = mergeEditor(base.Editor, override.Editor)

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// Booleans can only be switched on by a higher layer.
	if override.Check {
		result.Check = true
	}
	if override.Write {
		result.Write = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}

	return &result
}

func mergeSerialize(base, override config.SerializeConfig) config.SerializeConfig {
	if override.BulletMarker != "" {
		base.BulletMarker = override.BulletMarker
	}
	if override.EmphasisMarker != "" {
		base.EmphasisMarker = override.EmphasisMarker
	}
	if override.FenceChar != "" {
		base.FenceChar = override.FenceChar
	}
	return base
}

func mergeEditor(base, override config.EditorConfig) config.EditorConfig {
	if override.Debounce != 0 {
		base.Debounce = override.Debounce
	}
	if override.ReadOnly {
		base.ReadOnly = true
	}
	if override.Placeholder != "" {
		base.Placeholder = override.Placeholder
	}
	return base
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
