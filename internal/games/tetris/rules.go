package tetris

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tetrus/internal/core"
)

var (
	// ErrInvalidRules is returned when an engine cannot be built from its rules.
	ErrInvalidRules = errors.New("tetris: invalid rules")
	// ErrInvalidSnapshot is returned when a snapshot cannot be restored.
	ErrInvalidSnapshot = errors.New("tetris: invalid snapshot")
)

// RotationPolicy decides what happens when a rotation lands on an invalid
// position.
type RotationPolicy string

const (
	// PolicyKick pushes the piece back inside the walls, then tries
	// horizontal and vertical kicks before giving up.
	PolicyKick RotationPolicy = "kick"
	// PolicyRevert rejects any invalid rotation immediately.
	PolicyRevert RotationPolicy = "revert"
)

// Kick offsets tried in order after the push-back step.
var (
	horizontalKicks = []int{-1, 1, -2, 2}
	verticalKicks   = []int{-1, -2}
)

// DefaultLineRewards maps lines cleared by one lock to the score gained.
var DefaultLineRewards = []int{0, 40, 100, 300, 1200}

// Rules fixes everything an engine needs besides its random source.
type Rules struct {
	Width  int
	Height int

	// SpawnX and SpawnY are the origin given to every new piece.
	SpawnX int
	SpawnY int

	Model  RotationModel
	Policy RotationPolicy

	// LineRewards is indexed by lines cleared; counts past the end score 0.
	LineRewards []int

	// Layout pre-fills the bottom of the board on every reset, using the
	// Board.Rows encoding.
	Layout []string

	// Colors overrides DefaultColors per shape.
	Colors map[Tag]core.Color
}

// DefaultRules returns the canonical 10x20 game with four-state rotations
// and wall kicks.
func DefaultRules() Rules {
	return Rules{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		SpawnX:      3,
		SpawnY:      0,
		Model:       RotationFull,
		Policy:      PolicyKick,
		LineRewards: append([]int(nil), DefaultLineRewards...),
	}
}

// ClassicRules returns the rule set of the training environment: reduced
// rotation tables and no kicks.
func ClassicRules() Rules {
	r := DefaultRules()
	r.Model = RotationReduced
	r.Policy = PolicyRevert
	return r
}

// Reward returns the score for clearing n lines with one lock.
func (r Rules) Reward(n int) int {
	if n < 0 || n >= len(r.LineRewards) {
		return 0
	}
	return r.LineRewards[n]
}

// Validate checks the rules and returns the catalog they describe.
func (r Rules) Validate() (*Catalog, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("%w: board must be positive, got %dx%d", ErrInvalidRules, r.Width, r.Height)
	}
	if r.Policy != PolicyKick && r.Policy != PolicyRevert {
		return nil, fmt.Errorf("%w: unknown rotation policy %q", ErrInvalidRules, r.Policy)
	}
	for i, v := range r.LineRewards {
		if v < 0 {
			return nil, fmt.Errorf("%w: negative reward %d for %d lines", ErrInvalidRules, v, i)
		}
	}

	catalog, err := NewCatalog(r.Model, r.Colors)
	if err != nil {
		return nil, err
	}

	for _, tag := range Tags {
		def, _ := catalog.Lookup(tag)
		if p := NewPiece(def, r.SpawnX, r.SpawnY); !p.InBounds(r.Width, r.Height) {
			return nil, fmt.Errorf("%w: spawn (%d,%d) puts %s outside the board", ErrInvalidRules, r.SpawnX, r.SpawnY, tag)
		}
	}
	return catalog, nil
}
