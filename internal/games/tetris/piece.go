package tetris

import "github.com/vovakirdan/tetrus/internal/core"

// Piece is a shape instance with a rotation index and an origin in board
// cells. Movement methods are unconditional; validating the result against
// a board is the caller's job.
type Piece struct {
	shape    *ShapeDefinition
	Rotation int
	X, Y     int
}

// NewPiece creates a piece of the given shape at rotation 0.
func NewPiece(shape *ShapeDefinition, x, y int) Piece {
	return Piece{shape: shape, X: x, Y: y}
}

// Tag returns the shape identifier.
func (p Piece) Tag() Tag {
	if p.shape == nil {
		return TagNone
	}
	return p.shape.Tag
}

// Color returns the display color of the shape.
func (p Piece) Color() core.Color {
	if p.shape == nil {
		return core.ColorDefault
	}
	return p.shape.Color
}

// Blocks returns the four absolute cell coordinates of the piece.
func (p Piece) Blocks() [4]core.Point {
	var out [4]core.Point
	if p.shape == nil {
		return out
	}
	origin := core.Point{X: p.X, Y: p.Y}
	for i, off := range p.shape.Rotations[p.Rotation] {
		out[i] = origin.Add(off)
	}
	return out
}

// Translate moves the origin by (dx, dy).
func (p *Piece) Translate(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// RotateNext advances to the next rotation state, wrapping around.
func (p *Piece) RotateNext() {
	if p.shape == nil {
		return
	}
	p.Rotation = (p.Rotation + 1) % len(p.shape.Rotations)
}

// InBounds reports whether every block lies inside a width x height grid.
func (p Piece) InBounds(width, height int) bool {
	for _, b := range p.Blocks() {
		if b.X < 0 || b.X >= width || b.Y < 0 || b.Y >= height {
			return false
		}
	}
	return true
}

// CollidesWith reports whether any block overlaps an occupied board cell.
// Blocks outside the board never collide.
func (p Piece) CollidesWith(b *Board) bool {
	for _, blk := range p.Blocks() {
		if b.Occupied(blk.X, blk.Y) {
			return true
		}
	}
	return false
}

// overflow returns the per-axis shift that brings the piece back inside a
// width x height grid. Zero on an axis means no correction is needed.
func (p Piece) overflow(width, height int) (dx, dy int) {
	minX, maxX := width, -1
	minY, maxY := height, -1
	for _, b := range p.Blocks() {
		minX, maxX = min(minX, b.X), max(maxX, b.X)
		minY, maxY = min(minY, b.Y), max(maxY, b.Y)
	}
	switch {
	case minX < 0:
		dx = -minX
	case maxX >= width:
		dx = width - 1 - maxX
	}
	switch {
	case minY < 0:
		dy = -minY
	case maxY >= height:
		dy = height - 1 - maxY
	}
	return dx, dy
}
