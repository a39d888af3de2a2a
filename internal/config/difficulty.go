package config

import "math"

// DifficultyManager calculates gravity speed based on lines or score.
type DifficultyManager struct {
	cfg          DifficultyConfig
	timing       TimingConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig, timing TimingConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		timing:       timing,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on lines/score.
func (d *DifficultyManager) Level(lines, score int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	var progress float64
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	switch d.cfg.Progression.Type {
	case "lines", "":
		progress = float64(lines) / maxAt
	case "score":
		progress = float64(score) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// FallTicks returns how many platform ticks pass between gravity steps.
// Speed grows from 1x at level 0 to (1 + speedMultiplier)x at level 1,
// never faster than MinFallTicks.
func (d *DifficultyManager) FallTicks(lines, score int) int {
	level := d.Level(lines, score)
	speed := 1.0 + level*d.cfg.Scaling.SpeedMultiplier
	if speed <= 0 {
		speed = 1
	}
	ticks := int(math.Round(float64(d.timing.FallTicks) / speed))
	minTicks := max(d.timing.MinFallTicks, 1)
	if ticks < minTicks {
		ticks = minTicks
	}
	return ticks
}

// clampF restricts a float64 to [lo, hi].
func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
