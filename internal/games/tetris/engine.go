package tetris

import (
	"fmt"

	"github.com/vovakirdan/tetrus/internal/core"
)

// Action is one player intent applied by Engine.Apply. The integer values
// are part of the observation/step contract.
type Action int

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionRotate
	ActionSoftDrop
)

// ActionCount is the size of the action space.
const ActionCount = 5

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionRotate:
		return "rotate"
	case ActionSoftDrop:
		return "soft_drop"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Valid reports whether a is part of the action space.
func (a Action) Valid() bool {
	return a >= ActionNone && a < ActionCount
}

// Phase is the engine state.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseGameOver
)

// Engine owns one game: board, current and next pieces, score and the
// terminal flag. It is synchronous and keeps no wall-clock state; gravity
// advances only when Apply is called. An Engine must not be shared between
// goroutines.
type Engine struct {
	rules   Rules
	catalog *Catalog
	source  Source

	board   *Board
	current Piece
	next    Piece

	score  int
	lines  int
	locked int
	over   bool
}

// NewEngine validates rules and returns an engine that has already been
// reset. A nil source means a RandomSource seeded with 0.
func NewEngine(rules Rules, src Source) (*Engine, error) {
	catalog, err := rules.Validate()
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = NewRandomSource(0)
	}

	e := &Engine{rules: rules, catalog: catalog, source: src}
	probe, err := NewBoard(rules.Width, rules.Height, catalog)
	if err != nil {
		return nil, err
	}
	if err := probe.LoadRows(rules.Layout); err != nil {
		return nil, err
	}

	e.Reset()
	return e, nil
}

// Reset starts a new game: fresh board (with the rules layout), zero score,
// two new pieces, terminal flag cleared.
func (e *Engine) Reset() Snapshot {
	//nolint:errcheck // dimensions and layout were validated in NewEngine
	e.board, _ = NewBoard(e.rules.Width, e.rules.Height, e.catalog)
	//nolint:errcheck // layout was validated in NewEngine
	e.board.LoadRows(e.rules.Layout)

	e.score = 0
	e.lines = 0
	e.locked = 0
	e.over = false
	e.current = e.spawn(e.source.Next())
	e.next = e.spawn(e.source.Next())
	return e.Snapshot()
}

func (e *Engine) spawn(tag Tag) Piece {
	def, ok := e.catalog.Lookup(tag)
	if !ok {
		def, _ = e.catalog.Lookup(TagO)
	}
	return NewPiece(def, e.rules.SpawnX, e.rules.SpawnY)
}

func (e *Engine) fits(p Piece) bool {
	return p.InBounds(e.board.width, e.board.height) && !p.CollidesWith(e.board)
}

// Apply runs one tick: the action, then gravity. It returns the score gained
// by a lock this tick and whether the game is over. Once over, Apply changes
// nothing and returns (0, true). Unknown actions are treated as ActionNone.
func (e *Engine) Apply(a Action) (reward int, terminal bool) {
	if e.over {
		return 0, true
	}
	e.Shift(a)
	return e.gravity()
}

// Shift applies an action without gravity and reports whether the current
// piece moved. Real-time drivers use it for player input between gravity
// ticks.
func (e *Engine) Shift(a Action) bool {
	if e.over {
		return false
	}
	switch a {
	case ActionLeft:
		return e.tryMove(-1, 0)
	case ActionRight:
		return e.tryMove(1, 0)
	case ActionSoftDrop:
		return e.tryMove(0, 1)
	case ActionRotate:
		return e.rotate()
	default:
		return false
	}
}

// HardDrop moves the current piece to its landing row and locks it.
func (e *Engine) HardDrop() (reward int, terminal bool) {
	if e.over {
		return 0, true
	}
	for e.tryMove(0, 1) {
	}
	return e.lockAndSpawn()
}

func (e *Engine) tryMove(dx, dy int) bool {
	p := e.current
	p.Translate(dx, dy)
	if !e.fits(p) {
		return false
	}
	e.current = p
	return true
}

func (e *Engine) rotate() bool {
	before := e.current
	p := e.current
	p.RotateNext()
	if e.accept(p) {
		return e.current != before
	}
	if e.rules.Policy == PolicyRevert {
		return false
	}

	if !p.InBounds(e.board.width, e.board.height) {
		dx, dy := p.overflow(e.board.width, e.board.height)
		p.Translate(dx, dy)
		if e.accept(p) {
			return true
		}
	}
	for _, dx := range horizontalKicks {
		k := p
		k.Translate(dx, 0)
		if e.accept(k) {
			return true
		}
	}
	for _, dy := range verticalKicks {
		k := p
		k.Translate(0, dy)
		if e.accept(k) {
			return true
		}
	}
	return false
}

// accept replaces the current piece with p if p fits.
func (e *Engine) accept(p Piece) bool {
	if !e.fits(p) {
		return false
	}
	e.current = p
	return true
}

func (e *Engine) gravity() (int, bool) {
	if e.tryMove(0, 1) {
		return 0, false
	}
	return e.lockAndSpawn()
}

func (e *Engine) lockAndSpawn() (int, bool) {
	e.board.Lock(e.current)
	e.locked++

	cleared := e.board.ClearFullLines()
	reward := e.rules.Reward(cleared)
	e.score += reward
	e.lines += cleared

	e.current = e.next
	e.next = e.spawn(e.source.Next())
	if e.current.CollidesWith(e.board) {
		e.over = true
		return reward, true
	}
	return reward, false
}

// Ghost returns where the current piece would land if dropped now.
func (e *Engine) Ghost() [4]core.Point {
	p := e.current
	for {
		down := p
		down.Translate(0, 1)
		if !e.fits(down) {
			return p.Blocks()
		}
		p = down
	}
}

// Board returns the playfield. Callers must treat it as read-only.
func (e *Engine) Board() *Board { return e.board }

// Current returns the falling piece.
func (e *Engine) Current() Piece { return e.current }

// Next returns the preview piece.
func (e *Engine) Next() Piece { return e.next }

// Score returns the accumulated score.
func (e *Engine) Score() int { return e.score }

// Lines returns the total lines cleared.
func (e *Engine) Lines() int { return e.lines }

// Locked returns how many pieces have been locked since the last reset.
func (e *Engine) Locked() int { return e.locked }

// Over reports whether the game has ended.
func (e *Engine) Over() bool { return e.over }

// Phase returns the state machine state.
func (e *Engine) Phase() Phase {
	if e.over {
		return PhaseGameOver
	}
	return PhasePlaying
}

// Rules returns the rules the engine was built with.
func (e *Engine) Rules() Rules { return e.rules }
