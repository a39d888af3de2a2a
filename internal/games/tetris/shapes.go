// Package tetris implements the falling-block puzzle: the shape catalog,
// pieces, the board and the tick-driven engine, plus the registry.Game
// adapter that drives the engine in real time.
package tetris

import (
	"fmt"

	"github.com/vovakirdan/tetrus/internal/core"
)

// Tag identifies one of the seven tetrominoes.
type Tag byte

const (
	TagNone Tag = 0
	TagI    Tag = 'I'
	TagO    Tag = 'O'
	TagT    Tag = 'T'
	TagS    Tag = 'S'
	TagZ    Tag = 'Z'
	TagJ    Tag = 'J'
	TagL    Tag = 'L'
)

// Tags lists every shape in catalog order. Random draws index into it.
var Tags = [7]Tag{TagI, TagO, TagT, TagS, TagZ, TagJ, TagL}

// String returns the single-letter name of the tag.
func (t Tag) String() string {
	if t == TagNone {
		return "."
	}
	return string(rune(t))
}

// ParseTag converts a single letter into a Tag.
func ParseTag(s string) (Tag, error) {
	if len(s) == 1 {
		tag := Tag(s[0])
		for _, known := range Tags {
			if tag == known {
				return tag, nil
			}
		}
	}
	return TagNone, fmt.Errorf("tetris: unknown shape %q", s)
}

// RotationModel selects which rotation tables a catalog exposes.
type RotationModel string

const (
	// RotationFull uses four states for every shape except O.
	RotationFull RotationModel = "full"
	// RotationReduced keeps two states for I, S and Z.
	RotationReduced RotationModel = "reduced"
)

// ShapeDefinition is an immutable tetromino: rotation states of four
// origin-relative offsets each, and a display color.
type ShapeDefinition struct {
	Tag       Tag
	Rotations [][4]core.Point
	Color     core.Color
}

// rotationTables are hand-authored; mirrored shapes are not rotations of
// each other, so they must not be derived.
var rotationTables = map[Tag][][4]core.Point{
	TagI: {
		{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}},
		{{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}},
		{{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}},
		{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}},
	},
	TagO: {
		{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}},
	},
	TagT: {
		{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}},
		{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}},
		{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}},
	},
	TagS: {
		{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
		{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}},
		{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}},
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}},
	},
	TagZ: {
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		{{X: 2, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}},
		{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}},
		{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 2}},
	},
	TagJ: {
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}},
		{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}},
		{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}},
	},
	TagL: {
		{{X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}},
		{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 0, Y: 2}},
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}},
	},
}

// reducedStates is the number of leading states kept by RotationReduced.
var reducedStates = map[Tag]int{TagI: 2, TagS: 2, TagZ: 2}

// DefaultColors are the classic guideline colors.
var DefaultColors = map[Tag]core.Color{
	TagI: core.ColorCyan,
	TagO: core.ColorYellow,
	TagT: core.ColorPurple,
	TagS: core.ColorGreen,
	TagZ: core.ColorRed,
	TagJ: core.ColorBlue,
	TagL: core.ColorOrange,
}

// Catalog is the immutable set of shapes a game plays with.
type Catalog struct {
	model  RotationModel
	shapes map[Tag]*ShapeDefinition
}

// NewCatalog builds a catalog for the given rotation model.
// Colors missing from the override map fall back to DefaultColors.
func NewCatalog(model RotationModel, colors map[Tag]core.Color) (*Catalog, error) {
	if model != RotationFull && model != RotationReduced {
		return nil, fmt.Errorf("%w: unknown rotation model %q", ErrInvalidRules, model)
	}
	for tag := range colors {
		if _, ok := rotationTables[tag]; !ok {
			return nil, fmt.Errorf("%w: color for unknown shape %q", ErrInvalidRules, tag)
		}
	}

	c := &Catalog{model: model, shapes: make(map[Tag]*ShapeDefinition, len(Tags))}
	for _, tag := range Tags {
		states := rotationTables[tag]
		if n, ok := reducedStates[tag]; ok && model == RotationReduced {
			states = states[:n]
		}
		color, ok := colors[tag]
		if !ok || color == core.ColorDefault {
			color = DefaultColors[tag]
		}
		c.shapes[tag] = &ShapeDefinition{Tag: tag, Rotations: states, Color: color}
	}
	return c, nil
}

// Model returns the rotation model the catalog was built with.
func (c *Catalog) Model() RotationModel {
	return c.model
}

// Lookup returns the definition for tag.
func (c *Catalog) Lookup(tag Tag) (*ShapeDefinition, bool) {
	def, ok := c.shapes[tag]
	return def, ok
}

// Color returns the display color for tag, or ColorDefault if unknown.
func (c *Catalog) Color(tag Tag) core.Color {
	if def, ok := c.shapes[tag]; ok {
		return def.Color
	}
	return core.ColorDefault
}
