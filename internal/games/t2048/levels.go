// Package t2048 implements the classic 2048 puzzle game with campaign and endless modes.
package t2048

import (
	"sync"

	"github.com/vovakirdan/tui-2048/internal/config"
)

// Level defines a campaign level with a target tile.
type Level struct {
	ID     int
	Name   string
	Target int     // Target tile value to reach
	Spawn4 float64 // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// Package-level configuration shared by every game created from the registry.
var (
	cfgMu       sync.RWMutex
	activeCfg   = config.DefaultT2048Config()
	startLevel  int
	levelsCache []Level
)

// SetConfig replaces the configuration used by games reset after this call.
func SetConfig(cfg config.T2048Config) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	activeCfg = cfg
	levelsCache = nil
}

// Config returns the active configuration.
func Config() config.T2048Config {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return activeCfg
}

// SetStartLevel sets the starting campaign level (1-based). 0 means start from the beginning.
func SetStartLevel(level int) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	startLevel = level
}

// GetStartLevel returns the currently selected start level.
func GetStartLevel() int {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return startLevel
}

// takeStartLevel returns the selected start level and clears it.
func takeStartLevel() int {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	lvl := startLevel
	startLevel = 0
	return lvl
}

// Levels returns the campaign levels of the active configuration.
func Levels() []Level {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	if levelsCache == nil {
		levelsCache = make([]Level, len(activeCfg.Levels))
		for i, l := range activeCfg.Levels {
			levelsCache[i] = Level{ID: i + 1, Name: l.Name, Target: l.Target, Spawn4: l.Spawn4}
		}
	}
	return levelsCache
}

// LevelCount returns the number of campaign levels.
func LevelCount() int {
	return len(Levels())
}

// GetLevel returns the level at the given index (0-based).
// Returns nil if index is out of range.
func GetLevel(index int) *Level {
	levels := Levels()
	if index < 0 || index >= len(levels) {
		return nil
	}
	lvl := levels[index]
	return &lvl
}

// LevelNames returns the names of all levels.
func LevelNames() []string {
	levels := Levels()
	names := make([]string, len(levels))
	for i, lvl := range levels {
		names[i] = lvl.Name
	}
	return names
}

// LevelTargets returns the targets of all levels.
func LevelTargets() []int {
	levels := Levels()
	targets := make([]int, len(levels))
	for i, lvl := range levels {
		targets[i] = lvl.Target
	}
	return targets
}
