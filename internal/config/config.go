// Package config provides YAML-based game configuration loading and
// difficulty management for tetrus.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a loaded configuration is unusable.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// TetrisConfig contains all configuration for the falling-block game.
type TetrisConfig struct {
	Board      BoardConfig       `yaml:"board"`
	Spawn      SpawnConfig       `yaml:"spawn"`
	Rotation   RotationConfig    `yaml:"rotation"`
	Scoring    ScoringConfig     `yaml:"scoring"`
	Timing     TimingConfig      `yaml:"timing"`
	Colors     map[string]string `yaml:"colors"` // shape letter -> color name
	Difficulty DifficultyConfig  `yaml:"difficulty"`
}

// BoardConfig defines the playfield.
type BoardConfig struct {
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
	Layout []string `yaml:"layout"` // bottom rows pre-filled on reset, '.' = empty
}

// SpawnConfig defines where new pieces appear.
type SpawnConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// RotationConfig selects the rotation tables and the invalid-rotation policy.
type RotationConfig struct {
	Model  string `yaml:"model"`  // "full" or "reduced"
	Policy string `yaml:"policy"` // "kick" or "revert"
}

// ScoringConfig defines rewards per lock.
type ScoringConfig struct {
	LineRewards   []int `yaml:"line_rewards"` // indexed by lines cleared
	LinesPerLevel int   `yaml:"lines_per_level"`
}

// TimingConfig defines gravity speed in platform ticks.
type TimingConfig struct {
	FallTicks    int `yaml:"fall_ticks"`     // ticks between gravity steps at the start
	MinFallTicks int `yaml:"min_fall_ticks"` // fastest gravity allowed
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases during a game.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "lines", "score", or "none"
	MaxAt int    `yaml:"max_at"` // lines/score at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // gravity speed-up at max difficulty
}

// Validate checks the fields the loader cannot default.
func (c TetrisConfig) Validate() error {
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return fmt.Errorf("%w: board must be positive, got %dx%d", ErrInvalidConfig, c.Board.Width, c.Board.Height)
	}
	if c.Timing.FallTicks <= 0 {
		return fmt.Errorf("%w: fall_ticks must be positive, got %d", ErrInvalidConfig, c.Timing.FallTicks)
	}
	if c.Timing.MinFallTicks <= 0 || c.Timing.MinFallTicks > c.Timing.FallTicks {
		return fmt.Errorf("%w: min_fall_ticks must be in 1..%d, got %d",
			ErrInvalidConfig, c.Timing.FallTicks, c.Timing.MinFallTicks)
	}
	if c.Scoring.LinesPerLevel <= 0 {
		return fmt.Errorf("%w: lines_per_level must be positive, got %d", ErrInvalidConfig, c.Scoring.LinesPerLevel)
	}
	switch c.Difficulty.Progression.Type {
	case "lines", "score", "none", "":
	default:
		return fmt.Errorf("%w: unknown progression type %q", ErrInvalidConfig, c.Difficulty.Progression.Type)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI value to a preset. Unknown or empty values yield ""
// which means "use the config as loaded".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
