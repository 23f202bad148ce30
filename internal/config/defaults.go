package config

import (
	_ "embed"
)

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the built-in configuration, used when the
// embedded YAML cannot be parsed.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Rules: T2048Rules{
			Spawn4Prob:      0.10,
			InitialTiles:    2,
			SpawnOnNoop:     false,
			FreezeWhenOver:  true,
			LevelClearTicks: 120,
		},
		Levels: []T2048Level{
			{Name: "Warm-up", Target: 128, Spawn4: 0.10},
			{Name: "Getting Started", Target: 256, Spawn4: 0.10},
			{Name: "Building Momentum", Target: 512, Spawn4: 0.10},
			{Name: "The Climb", Target: 1024, Spawn4: 0.10},
			{Name: "Classic 2048", Target: 2048, Spawn4: 0.10},
			{Name: "Beyond Limits", Target: 4096, Spawn4: 0.12},
			{Name: "Master Class", Target: 8192, Spawn4: 0.15},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 20000,
			},
			Scaling: ScalingConfig{
				Spawn4Increase: 0.15,
			},
		},
		Theme: T2048Theme{
			Default: "bright_white",
			Tiles: map[int]string{
				2:    "white",
				4:    "bright_white",
				8:    "yellow",
				16:   "orange",
				32:   "red",
				64:   "bright_red",
				128:  "bright_yellow",
				256:  "green",
				512:  "bright_green",
				1024: "cyan",
				2048: "bright_magenta",
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultT2048YAML
}
