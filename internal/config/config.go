// Package config provides YAML-based game configuration loading and
// difficulty management for 2048.
package config

import (
	"errors"
	"fmt"
)

// T2048Config contains all configuration for the 2048 game.
type T2048Config struct {
	Rules      T2048Rules       `yaml:"rules"`
	Levels     []T2048Level     `yaml:"levels"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Theme      T2048Theme       `yaml:"theme"`
}

// T2048Rules defines the rule variations applied around the grid engine.
type T2048Rules struct {
	Spawn4Prob      float64 `yaml:"spawn4_probability"` // Chance a spawned tile is 4
	InitialTiles    int     `yaml:"initial_tiles"`      // Tiles spawned on reset
	SpawnOnNoop     bool    `yaml:"spawn_on_noop"`      // Spawn even when a move changed nothing
	FreezeWhenOver  bool    `yaml:"freeze_when_over"`   // Reject moves after game over
	LevelClearTicks int     `yaml:"level_clear_ticks"`  // Pause between campaign levels
}

// T2048Level defines a campaign level with a target tile.
type T2048Level struct {
	Name   string  `yaml:"name"`
	Target int     `yaml:"target"`
	Spawn4 float64 `yaml:"spawn4"`
}

// T2048Theme maps tile values to color names understood by core.ParseColor.
type T2048Theme struct {
	Default string         `yaml:"default"`
	Tiles   map[int]string `yaml:"tiles"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	Spawn4Increase float64 `yaml:"spawn4_increase"` // Added to spawn4 probability at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Validate checks that the configuration can drive a game.
func (c T2048Config) Validate() error {
	if c.Rules.Spawn4Prob < 0 || c.Rules.Spawn4Prob > 1 {
		return fmt.Errorf("%w: spawn4_probability %.2f outside [0,1]", ErrInvalidConfig, c.Rules.Spawn4Prob)
	}
	if c.Rules.InitialTiles < 0 || c.Rules.InitialTiles > 16 {
		return fmt.Errorf("%w: initial_tiles %d outside [0,16]", ErrInvalidConfig, c.Rules.InitialTiles)
	}
	if len(c.Levels) == 0 {
		return fmt.Errorf("%w: no campaign levels", ErrInvalidConfig)
	}
	for i, lvl := range c.Levels {
		if lvl.Target < 4 || lvl.Target&(lvl.Target-1) != 0 {
			return fmt.Errorf("%w: level %d target %d is not a power of two", ErrInvalidConfig, i+1, lvl.Target)
		}
		if lvl.Spawn4 < 0 || lvl.Spawn4 > 1 {
			return fmt.Errorf("%w: level %d spawn4 %.2f outside [0,1]", ErrInvalidConfig, i+1, lvl.Spawn4)
		}
	}
	switch c.Difficulty.Progression.Type {
	case "", "none", "score", "time":
	default:
		return fmt.Errorf("%w: unknown progression type %q", ErrInvalidConfig, c.Difficulty.Progression.Type)
	}
	return nil
}

// ParsePreset converts a flag value into a preset. Empty means no preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q (want easy, normal, hard or fixed)", ErrInvalidConfig, s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
