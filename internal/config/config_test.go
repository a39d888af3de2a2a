package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// isolate points HOME and the working directory at empty temp dirs.
func isolate(t *testing.T) (home, cwd string) {
	t.Helper()
	home = t.TempDir()
	cwd = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(cwd)
	return home, cwd
}

func TestLoadTetrisEmbeddedDefault(t *testing.T) {
	isolate(t)

	cfg, err := LoadTetris("")
	if err != nil {
		t.Fatalf("LoadTetris failed: %v", err)
	}

	want := DefaultTetrisConfig()
	if cfg.Board.Width != want.Board.Width || cfg.Board.Height != want.Board.Height {
		t.Errorf("board = %dx%d, want %dx%d", cfg.Board.Width, cfg.Board.Height, want.Board.Width, want.Board.Height)
	}
	if cfg.Timing != want.Timing {
		t.Errorf("timing = %+v, want %+v", cfg.Timing, want.Timing)
	}
	if !reflect.DeepEqual(cfg.Scoring, want.Scoring) {
		t.Errorf("scoring = %+v, want %+v", cfg.Scoring, want.Scoring)
	}
	if cfg.Rotation != want.Rotation {
		t.Errorf("rotation = %+v, want %+v", cfg.Rotation, want.Rotation)
	}
	if cfg.Colors["T"] != "purple" {
		t.Errorf("T color = %q, want purple", cfg.Colors["T"])
	}
}

func TestLoadTetrisCustomPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "board:\n  width: 12\n")

	cfg, err := LoadTetris(path)
	if err != nil {
		t.Fatalf("LoadTetris failed: %v", err)
	}
	if cfg.Board.Width != 12 {
		t.Errorf("width = %d, want 12", cfg.Board.Width)
	}
	// Keys absent from the file keep their defaults
	if cfg.Board.Height != 20 {
		t.Errorf("height = %d, want 20", cfg.Board.Height)
	}
	if cfg.Timing.FallTicks != 30 {
		t.Errorf("fall_ticks = %d, want 30", cfg.Timing.FallTicks)
	}
}

func TestLoadTetrisCustomPathErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	if _, err := LoadTetris(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "board: [not, a, map\n")
	if _, err := LoadTetris(bad); err == nil {
		t.Error("expected error for malformed custom config")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "timing:\n  fall_ticks: 0\n")
	_, err := LoadTetris(invalid)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadTetrisSearchOrder(t *testing.T) {
	home, cwd := isolate(t)

	writeFile(t, filepath.Join(cwd, "configs", TetrisFile), "board:\n  width: 8\n")
	cfg, err := LoadTetris("")
	if err != nil {
		t.Fatalf("LoadTetris failed: %v", err)
	}
	if cfg.Board.Width != 8 {
		t.Errorf("local config: width = %d, want 8", cfg.Board.Width)
	}

	writeFile(t, filepath.Join(home, ".tetrus", "configs", TetrisFile), "board:\n  width: 14\n")
	cfg, err = LoadTetris("")
	if err != nil {
		t.Fatalf("LoadTetris failed: %v", err)
	}
	if cfg.Board.Width != 14 {
		t.Errorf("user config should win: width = %d, want 14", cfg.Board.Width)
	}
}

func TestLoadTetrisSkipsInvalidUserConfig(t *testing.T) {
	home, cwd := isolate(t)

	writeFile(t, filepath.Join(home, ".tetrus", "configs", TetrisFile), "board:\n  width: -1\n")
	writeFile(t, filepath.Join(cwd, "configs", TetrisFile), "board:\n  width: 9\n")

	cfg, err := LoadTetris("")
	if err != nil {
		t.Fatalf("LoadTetris failed: %v", err)
	}
	if cfg.Board.Width != 9 {
		t.Errorf("width = %d, want 9 from local config", cfg.Board.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TetrisConfig)
		ok     bool
	}{
		{"default", func(*TetrisConfig) {}, true},
		{"zero width", func(c *TetrisConfig) { c.Board.Width = 0 }, false},
		{"negative height", func(c *TetrisConfig) { c.Board.Height = -3 }, false},
		{"zero fall ticks", func(c *TetrisConfig) { c.Timing.FallTicks = 0 }, false},
		{"min above fall", func(c *TetrisConfig) { c.Timing.MinFallTicks = 31 }, false},
		{"zero lines per level", func(c *TetrisConfig) { c.Scoring.LinesPerLevel = 0 }, false},
		{"bad progression", func(c *TetrisConfig) { c.Difficulty.Progression.Type = "time" }, false},
		{"no progression", func(c *TetrisConfig) { c.Difficulty.Progression.Type = "none" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTetrisConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in   string
		want DifficultyPreset
	}{
		{"easy", DifficultyEasy},
		{"normal", DifficultyNormal},
		{"hard", DifficultyHard},
		{"fixed", DifficultyFixed},
		{"", ""},
		{"insane", ""},
	}

	for _, tt := range tests {
		if got := ParsePreset(tt.in); got != tt.want {
			t.Errorf("ParsePreset(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyTetrisPreset(t *testing.T) {
	cfg := DefaultTetrisConfig()
	ApplyTetrisPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard: difficulty = %+v", cfg.Difficulty)
	}
	if cfg.Timing.FallTicks != 20 {
		t.Errorf("hard: fall_ticks = %d, want 20", cfg.Timing.FallTicks)
	}

	cfg = DefaultTetrisConfig()
	ApplyTetrisPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	cfg = DefaultTetrisConfig()
	ApplyTetrisPreset(&cfg, "")
	if !reflect.DeepEqual(cfg, DefaultTetrisConfig()) {
		t.Error("empty preset should leave config unchanged")
	}
}
