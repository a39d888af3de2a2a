package tetris

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tetrus/internal/core"
)

// Canonical playfield size.
const (
	DefaultWidth  = 10
	DefaultHeight = 20
)

// Board is the fixed-size grid of locked cells. A cell holds the tag of the
// shape that locked it, or TagNone when empty, so a cell has a color exactly
// when it is occupied.
type Board struct {
	width   int
	height  int
	cells   [][]Tag
	catalog *Catalog
}

// NewBoard creates an empty board. Dimensions must be positive.
func NewBoard(width, height int, catalog *Catalog) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: board must be positive, got %dx%d", ErrInvalidRules, width, height)
	}
	b := &Board{width: width, height: height, catalog: catalog}
	b.cells = make([][]Tag, height)
	for y := range b.cells {
		b.cells[y] = make([]Tag, width)
	}
	return b, nil
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

func (b *Board) inside(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Occupied reports whether the cell is filled. Cells outside the board are
// reported empty.
func (b *Board) Occupied(x, y int) bool {
	return b.inside(x, y) && b.cells[y][x] != TagNone
}

// TagAt returns the tag locked at the cell, or TagNone.
func (b *Board) TagAt(x, y int) Tag {
	if !b.inside(x, y) {
		return TagNone
	}
	return b.cells[y][x]
}

// ColorAt returns the color of an occupied cell.
func (b *Board) ColorAt(x, y int) (core.Color, bool) {
	tag := b.TagAt(x, y)
	if tag == TagNone {
		return core.ColorDefault, false
	}
	return b.catalog.Color(tag), true
}

// Lock writes every in-bounds block of p into the grid. It does not check
// for collisions.
func (b *Board) Lock(p Piece) {
	tag := p.Tag()
	for _, blk := range p.Blocks() {
		if b.inside(blk.X, blk.Y) {
			b.cells[blk.Y][blk.X] = tag
		}
	}
}

// ClearFullLines removes every full row and returns how many were removed.
// Surviving rows keep their relative order and the same number of empty
// rows is inserted at the top.
func (b *Board) ClearFullLines() int {
	kept := make([][]Tag, 0, b.height)
	for _, row := range b.cells {
		if !rowFull(row) {
			kept = append(kept, row)
		}
	}

	removed := b.height - len(kept)
	if removed == 0 {
		return 0
	}

	fresh := make([][]Tag, 0, b.height)
	for range removed {
		fresh = append(fresh, make([]Tag, b.width))
	}
	b.cells = append(fresh, kept...)
	return removed
}

func rowFull(row []Tag) bool {
	for _, c := range row {
		if c == TagNone {
			return false
		}
	}
	return true
}

// Rows encodes the grid one string per row, top first: '.' for empty cells
// and the shape letter otherwise.
func (b *Board) Rows() []string {
	rows := make([]string, b.height)
	var sb strings.Builder
	for y, row := range b.cells {
		sb.Reset()
		for _, c := range row {
			sb.WriteString(c.String())
		}
		rows[y] = sb.String()
	}
	return rows
}

// LoadRows replaces the bottom len(rows) rows of the board with the encoded
// layout, the last string being the bottom row. Rows above are cleared.
// Any letter outside the catalog or a wrong row width is an error.
func (b *Board) LoadRows(rows []string) error {
	if len(rows) > b.height {
		return fmt.Errorf("%w: layout has %d rows, board has %d", ErrInvalidRules, len(rows), b.height)
	}

	cells := make([][]Tag, b.height)
	for y := range cells {
		cells[y] = make([]Tag, b.width)
	}

	offset := b.height - len(rows)
	for i, row := range rows {
		if len(row) != b.width {
			return fmt.Errorf("%w: layout row %d has width %d, want %d", ErrInvalidRules, i, len(row), b.width)
		}
		for x := 0; x < len(row); x++ {
			ch := row[x]
			if ch == '.' || ch == ' ' {
				continue
			}
			tag, err := ParseTag(string(ch))
			if err != nil {
				return fmt.Errorf("%w: layout row %d: %v", ErrInvalidRules, i, err)
			}
			cells[offset+i][x] = tag
		}
	}
	b.cells = cells
	return nil
}

// Filled returns the number of occupied cells.
func (b *Board) Filled() int {
	n := 0
	for _, row := range b.cells {
		for _, c := range row {
			if c != TagNone {
				n++
			}
		}
	}
	return n
}
