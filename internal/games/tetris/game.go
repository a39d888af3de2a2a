package tetris

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tetrus/internal/config"
	"github.com/vovakirdan/tetrus/internal/core"
	"github.com/vovakirdan/tetrus/internal/registry"
)

// Variant describes one registered rule set.
type Variant struct {
	ID          string
	Title       string
	Description string
	Classic     bool // reduced rotations and revert policy regardless of config
}

// Registered variants.
var (
	Standard = Variant{
		ID:          "tetris",
		Title:       "Tetris",
		Description: "Four-state rotations with wall kicks",
	}
	Classic = Variant{
		ID:          "tetris_classic",
		Title:       "Tetris Classic",
		Description: "Reduced rotations, invalid turns are rejected",
		Classic:     true,
	}
)

// Variants lists the registered variants.
var Variants = []Variant{Standard, Classic}

// VariantByID looks up a registered variant.
func VariantByID(id string) (Variant, bool) {
	for _, v := range Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Rules builds the engine rules this variant plays with under cfg.
func (v Variant) Rules(cfg config.TetrisConfig) (Rules, error) {
	rules, err := RulesFromConfig(cfg)
	if err != nil {
		return Rules{}, err
	}
	if v.Classic {
		rules.Model = RotationReduced
		rules.Policy = PolicyRevert
	}
	return rules, nil
}

// configPath stores the custom config path set via CLI
var configPath string
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// RulesFromConfig converts a loaded configuration into engine rules.
func RulesFromConfig(cfg config.TetrisConfig) (Rules, error) {
	r := Rules{
		Width:       cfg.Board.Width,
		Height:      cfg.Board.Height,
		SpawnX:      cfg.Spawn.X,
		SpawnY:      cfg.Spawn.Y,
		Model:       RotationModel(strings.ToLower(cfg.Rotation.Model)),
		Policy:      RotationPolicy(strings.ToLower(cfg.Rotation.Policy)),
		LineRewards: append([]int(nil), cfg.Scoring.LineRewards...),
		Layout:      append([]string(nil), cfg.Board.Layout...),
	}
	if r.Model == "" {
		r.Model = RotationFull
	}
	if r.Policy == "" {
		r.Policy = PolicyKick
	}
	if len(r.LineRewards) == 0 {
		r.LineRewards = append([]int(nil), DefaultLineRewards...)
	}

	if len(cfg.Colors) > 0 {
		r.Colors = make(map[Tag]core.Color, len(cfg.Colors))
		for name, colorName := range cfg.Colors {
			tag, err := ParseTag(name)
			if err != nil {
				return Rules{}, fmt.Errorf("%w: colors: %v", ErrInvalidRules, err)
			}
			c, err := core.ParseColor(colorName)
			if err != nil {
				return Rules{}, fmt.Errorf("%w: colors: %v", ErrInvalidRules, err)
			}
			r.Colors[tag] = c
		}
	}
	return r, nil
}

// Visual characters for rendering
const (
	BlockChar = '█'
	GhostChar = '░'
	EmptyChar = '·'
)

// Game adapts an Engine to the platform: it owns the gravity counter,
// pause state and difficulty speed-up, and maps platform actions to engine
// operations.
type Game struct {
	variant    Variant
	cfg        config.TetrisConfig
	runtime    core.RuntimeConfig
	engine     *Engine
	difficulty *config.DifficultyManager

	paused      bool
	fallCounter int
	tickCount   int
}

// New creates a game of the given variant. Call Reset before Step.
func New(v Variant) *Game {
	return &Game{variant: v}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.variant.ID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.variant.Title
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	// Load game config
	cfg, err := config.LoadTetris(configPath)
	if err != nil {
		cfg = config.DefaultTetrisConfig()
	}
	config.ApplyTetrisPreset(&cfg, difficultyPreset)
	g.ResetWith(cfg, runtime)
}

// ResetWith restarts the game from an explicit configuration, bypassing the
// config search path.
func (g *Game) ResetWith(cfg config.TetrisConfig, runtime core.RuntimeConfig) {
	g.runtime = runtime

	engine, err := g.buildEngine(cfg, runtime.Seed)
	if err != nil {
		cfg = config.DefaultTetrisConfig()
		engine, _ = g.buildEngine(cfg, runtime.Seed) //nolint:errcheck // defaults are always valid
	}

	g.cfg = cfg
	g.engine = engine
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty, cfg.Timing)
	g.paused = false
	g.fallCounter = 0
	g.tickCount = 0
}

func (g *Game) buildEngine(cfg config.TetrisConfig, seed int64) (*Engine, error) {
	rules, err := g.variant.Rules(cfg)
	if err != nil {
		return nil, err
	}
	return NewEngine(rules, NewRandomSource(seed))
}

// Step advances the game by one platform tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.engine.Over() {
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}

	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++
	lockedBefore := g.engine.Locked()
	reward := 0

	if in.Has(core.ActionLeft) {
		g.engine.Shift(ActionLeft)
	}
	if in.Has(core.ActionRight) {
		g.engine.Shift(ActionRight)
	}
	if in.Has(core.ActionRotate) {
		g.engine.Shift(ActionRotate)
	}

	switch {
	case in.Has(core.ActionDrop):
		r, _ := g.engine.HardDrop()
		reward += r
		g.fallCounter = 0
	case in.Has(core.ActionSoftDrop):
		// A soft drop that cannot move is a gravity step: it locks.
		if !g.engine.Shift(ActionSoftDrop) {
			r, _ := g.engine.Apply(ActionNone)
			reward += r
		}
		g.fallCounter = 0
	default:
		g.fallCounter++
		if g.fallCounter >= g.FallTicks() {
			g.fallCounter = 0
			r, _ := g.engine.Apply(ActionNone)
			reward += r
		}
	}

	return core.StepResult{
		State:  g.State(),
		Reward: reward,
		Locked: g.engine.Locked() != lockedBefore,
	}
}

// FallTicks returns the current number of ticks between gravity steps.
func (g *Game) FallTicks() int {
	return g.difficulty.FallTicks(g.engine.Lines(), g.engine.Score())
}

// Level returns the 1-based level shown to the player.
func (g *Game) Level() int {
	per := g.cfg.Scoring.LinesPerLevel
	if per <= 0 {
		per = 10
	}
	return 1 + g.engine.Lines()/per
}

// Engine exposes the underlying engine for rendering and tests.
func (g *Game) Engine() *Engine {
	return g.engine
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.engine.Score(),
		Lines:    g.engine.Lines(),
		Level:    g.Level(),
		GameOver: g.engine.Over(),
		Paused:   g.paused,
	}
}

// SaveState encodes the running game as a YAML snapshot.
func (g *Game) SaveState() ([]byte, error) {
	return MarshalSnapshot(g.engine.Snapshot())
}

// LoadState resumes a game saved by SaveState. The game must have been
// Reset first so it has an engine with matching rules.
func (g *Game) LoadState(data []byte) error {
	snap, err := UnmarshalSnapshot(data)
	if err != nil {
		return err
	}
	if err := g.engine.Restore(snap); err != nil {
		return err
	}
	g.fallCounter = 0
	g.paused = true
	return nil
}

// Register the variants with the registry
func init() {
	for _, v := range Variants {
		registry.Register(registry.GameInfo{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
		}, func() registry.Game {
			return New(v)
		})
	}
}
