package tetris

import (
	"encoding"
	"encoding/base64"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tetrus/internal/core"
)

// PieceState is the serialized form of a piece. Blocks and Color are
// derived and only informative; Restore rebuilds them from the shape.
type PieceState struct {
	Shape    string       `yaml:"shape"`
	Rotation int          `yaml:"rotation"`
	X        int          `yaml:"x"`
	Y        int          `yaml:"y"`
	Blocks   []core.Point `yaml:"blocks,flow"`
	Color    string       `yaml:"color"`
}

// Snapshot is a read-only copy of the whole game state. Uses primitive
// types only for stable serialization.
type Snapshot struct {
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	Model    RotationModel `yaml:"model"`
	Rows     []string      `yaml:"rows"`
	Current  PieceState    `yaml:"current"`
	Next     PieceState    `yaml:"next"`
	Score    int           `yaml:"score"`
	Lines    int           `yaml:"lines"`
	Locked   int           `yaml:"locked"`
	Terminal bool          `yaml:"terminal"`

	// Source is the base64 state of the piece source, empty when the source
	// cannot be serialized.
	Source string `yaml:"source,omitempty"`
}

func pieceState(p Piece) PieceState {
	blocks := p.Blocks()
	return PieceState{
		Shape:    p.Tag().String(),
		Rotation: p.Rotation,
		X:        p.X,
		Y:        p.Y,
		Blocks:   blocks[:],
		Color:    p.Color().String(),
	}
}

// Snapshot returns the current game state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Width:    e.board.width,
		Height:   e.board.height,
		Model:    e.catalog.Model(),
		Rows:     e.board.Rows(),
		Current:  pieceState(e.current),
		Next:     pieceState(e.next),
		Score:    e.score,
		Lines:    e.lines,
		Locked:   e.locked,
		Terminal: e.over,
	}
	if m, ok := e.source.(encoding.BinaryMarshaler); ok {
		if data, err := m.MarshalBinary(); err == nil {
			snap.Source = base64.StdEncoding.EncodeToString(data)
		}
	}
	return snap
}

// Restore replaces the engine state with snap. The snapshot must come from
// an engine with the same board size and rotation model. On error the
// engine is left unchanged.
func (e *Engine) Restore(snap Snapshot) error {
	if snap.Width != e.board.width || snap.Height != e.board.height {
		return fmt.Errorf("%w: board %dx%d, engine is %dx%d",
			ErrInvalidSnapshot, snap.Width, snap.Height, e.board.width, e.board.height)
	}
	if snap.Model != e.catalog.Model() {
		return fmt.Errorf("%w: rotation model %q, engine uses %q", ErrInvalidSnapshot, snap.Model, e.catalog.Model())
	}

	board, err := NewBoard(e.board.width, e.board.height, e.catalog)
	if err != nil {
		return err
	}
	if len(snap.Rows) != snap.Height {
		return fmt.Errorf("%w: %d rows for height %d", ErrInvalidSnapshot, len(snap.Rows), snap.Height)
	}
	if err := board.LoadRows(snap.Rows); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	current, err := e.restorePiece(snap.Current)
	if err != nil {
		return fmt.Errorf("%w: current: %v", ErrInvalidSnapshot, err)
	}
	next, err := e.restorePiece(snap.Next)
	if err != nil {
		return fmt.Errorf("%w: next: %v", ErrInvalidSnapshot, err)
	}

	if snap.Source != "" {
		u, ok := e.source.(encoding.BinaryUnmarshaler)
		if !ok {
			return fmt.Errorf("%w: source state given but source %T cannot restore it", ErrInvalidSnapshot, e.source)
		}
		data, err := base64.StdEncoding.DecodeString(snap.Source)
		if err != nil {
			return fmt.Errorf("%w: source: %v", ErrInvalidSnapshot, err)
		}
		if err := u.UnmarshalBinary(data); err != nil {
			return fmt.Errorf("%w: source: %v", ErrInvalidSnapshot, err)
		}
	}

	e.board = board
	e.current = current
	e.next = next
	e.score = snap.Score
	e.lines = snap.Lines
	e.locked = snap.Locked
	e.over = snap.Terminal
	return nil
}

func (e *Engine) restorePiece(ps PieceState) (Piece, error) {
	tag, err := ParseTag(ps.Shape)
	if err != nil {
		return Piece{}, err
	}
	def, ok := e.catalog.Lookup(tag)
	if !ok {
		return Piece{}, fmt.Errorf("shape %s not in catalog", tag)
	}
	if ps.Rotation < 0 || ps.Rotation >= len(def.Rotations) {
		return Piece{}, fmt.Errorf("rotation %d out of range for %s", ps.Rotation, tag)
	}
	p := NewPiece(def, ps.X, ps.Y)
	p.Rotation = ps.Rotation
	return p, nil
}

// Occupied reports whether the snapshot board has a locked cell at (x, y).
func (s *Snapshot) Occupied(x, y int) bool {
	if y < 0 || y >= len(s.Rows) || x < 0 || x >= len(s.Rows[y]) {
		return false
	}
	return s.Rows[y][x] != '.'
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (s *Snapshot) Hash() uint64 {
	h := uint64(s.Width)              //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Height)       //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Score)        //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Lines)        //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Locked)       //#nosec G115 -- hash computation
	h = h*31 + hashPiece(s.Current)
	h = h*31 + hashPiece(s.Next)
	if s.Terminal {
		h = h*31 + 1
	}

	for _, row := range s.Rows {
		for i := 0; i < len(row); i++ {
			h = h*31 + uint64(row[i])
		}
	}

	for i := 0; i < len(s.Source); i++ {
		h = h*31 + uint64(s.Source[i])
	}

	return h
}

func hashPiece(p PieceState) uint64 {
	var h uint64
	for i := 0; i < len(p.Shape); i++ {
		h = h*31 + uint64(p.Shape[i])
	}
	h = h*31 + uint64(p.Rotation) //#nosec G115 -- hash computation
	h = h*31 + uint64(p.X)        //#nosec G115 -- hash computation
	h = h*31 + uint64(p.Y)        //#nosec G115 -- hash computation
	return h
}

// MarshalSnapshot encodes a snapshot as YAML.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("tetris: encode snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes a snapshot produced by MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return s, nil
}
