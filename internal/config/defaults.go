package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the default game configuration.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Board: BoardConfig{
			Width:  10,
			Height: 20,
		},
		Spawn: SpawnConfig{
			X: 3,
			Y: 0,
		},
		Rotation: RotationConfig{
			Model:  "full",
			Policy: "kick",
		},
		Scoring: ScoringConfig{
			LineRewards:   []int{0, 40, 100, 300, 1200},
			LinesPerLevel: 10,
		},
		Timing: TimingConfig{
			FallTicks:    30, // half a second at 60fps
			MinFallTicks: 3,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "lines",
				MaxAt: 150,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 5.0,
			},
		},
	}
}
