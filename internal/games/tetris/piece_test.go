package tetris

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tetrus/internal/core"
)

func TestEveryRotationHasFourDistinctBlocks(t *testing.T) {
	for _, model := range []RotationModel{RotationFull, RotationReduced} {
		catalog := mustCatalog(t, model)
		for _, tag := range Tags {
			def, ok := catalog.Lookup(tag)
			if !ok {
				t.Fatalf("%s: shape %s missing", model, tag)
			}
			for r, offsets := range def.Rotations {
				seen := make(map[core.Point]bool, 4)
				for _, off := range offsets {
					seen[off] = true
				}
				if len(seen) != 4 {
					t.Errorf("%s %s rotation %d has %d distinct blocks", model, tag, r, len(seen))
				}
			}
		}
	}
}

func TestRotationCounts(t *testing.T) {
	tests := []struct {
		model RotationModel
		want  map[Tag]int
	}{
		{RotationFull, map[Tag]int{TagI: 4, TagO: 1, TagT: 4, TagS: 4, TagZ: 4, TagJ: 4, TagL: 4}},
		{RotationReduced, map[Tag]int{TagI: 2, TagO: 1, TagT: 4, TagS: 2, TagZ: 2, TagJ: 4, TagL: 4}},
	}

	for _, tt := range tests {
		catalog := mustCatalog(t, tt.model)
		for tag, want := range tt.want {
			def, _ := catalog.Lookup(tag)
			if got := len(def.Rotations); got != want {
				t.Errorf("%s %s: %d rotations, want %d", tt.model, tag, got, want)
			}
		}
	}
}

func TestCatalogColors(t *testing.T) {
	catalog, err := NewCatalog(RotationFull, map[Tag]core.Color{TagT: core.ColorMagenta})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	if got := catalog.Color(TagT); got != core.ColorMagenta {
		t.Errorf("T color = %v, want magenta", got)
	}
	if got := catalog.Color(TagI); got != core.ColorCyan {
		t.Errorf("I color = %v, want default cyan", got)
	}
	if got := catalog.Color(TagNone); got != core.ColorDefault {
		t.Errorf("unknown tag color = %v, want default", got)
	}

	if _, err := NewCatalog("diagonal", nil); !errors.Is(err, ErrInvalidRules) {
		t.Errorf("unknown model err = %v, want ErrInvalidRules", err)
	}
	if _, err := NewCatalog(RotationFull, map[Tag]core.Color{'X': core.ColorRed}); !errors.Is(err, ErrInvalidRules) {
		t.Errorf("unknown tag err = %v, want ErrInvalidRules", err)
	}
}

func TestParseTag(t *testing.T) {
	for _, tag := range Tags {
		got, err := ParseTag(tag.String())
		if err != nil || got != tag {
			t.Errorf("ParseTag(%q) = %v, %v", tag.String(), got, err)
		}
	}
	for _, bad := range []string{"", "X", "II", "i"} {
		if _, err := ParseTag(bad); err == nil {
			t.Errorf("ParseTag(%q) should fail", bad)
		}
	}
}

func TestPieceGeometry(t *testing.T) {
	catalog := mustCatalog(t, RotationFull)
	def, _ := catalog.Lookup(TagT)
	p := NewPiece(def, 3, 0)

	want := [4]core.Point{{X: 4, Y: 0}, {X: 3, Y: 1}, {X: 4, Y: 1}, {X: 5, Y: 1}}
	if got := p.Blocks(); got != want {
		t.Errorf("Blocks() = %v, want %v", got, want)
	}

	p.Translate(-1, 2)
	if p.X != 2 || p.Y != 2 {
		t.Errorf("after Translate origin = (%d,%d), want (2,2)", p.X, p.Y)
	}

	for i := 1; i <= 4; i++ {
		p.RotateNext()
		if p.Rotation != i%4 {
			t.Errorf("after %d rotations index = %d, want %d", i, p.Rotation, i%4)
		}
	}
}

func TestZeroPiece(t *testing.T) {
	var p Piece
	p.RotateNext()
	if p.Rotation != 0 {
		t.Errorf("zero piece rotation = %d, want 0", p.Rotation)
	}
	if p.Tag() != TagNone || p.Color() != core.ColorDefault {
		t.Errorf("zero piece Tag/Color = %v/%v", p.Tag(), p.Color())
	}
	if got := p.Blocks(); got != ([4]core.Point{}) {
		t.Errorf("zero piece Blocks() = %v", got)
	}
}

func TestPieceInBounds(t *testing.T) {
	catalog := mustCatalog(t, RotationFull)
	def, _ := catalog.Lookup(TagI)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"spawn", 3, 0, true},
		{"left wall", 0, 0, true},
		{"past left wall", -1, 0, false},
		{"right wall", 6, 0, true},
		{"past right wall", 7, 0, false},
		{"floor", 0, 18, true},
		{"past floor", 0, 19, false},
		{"above ceiling", 0, -2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPiece(def, tt.x, tt.y)
			if got := p.InBounds(10, 20); got != tt.want {
				t.Errorf("InBounds at (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestPieceCollidesWith(t *testing.T) {
	b := mustBoard(t, 4, 3, "....", "..L.", "....")
	catalog := mustCatalog(t, RotationFull)
	def, _ := catalog.Lookup(TagO) // blocks (x+1,y) (x+2,y) (x+1,y+1) (x+2,y+1)

	if p := NewPiece(def, 0, 0); !p.CollidesWith(b) {
		t.Error("piece over (2,1) should collide")
	}
	if p := NewPiece(def, -1, 1); p.CollidesWith(b) {
		t.Error("piece at (0..1, 1..2) should not collide")
	}
	// Out-of-bounds blocks never collide
	if p := NewPiece(def, 5, 5); p.CollidesWith(b) {
		t.Error("piece outside the board should not collide")
	}
}

func TestPieceOverflow(t *testing.T) {
	catalog := mustCatalog(t, RotationFull)
	def, _ := catalog.Lookup(TagI)

	tests := []struct {
		name     string
		rotation int
		x, y     int
		dx, dy   int
	}{
		{"inside", 0, 3, 0, 0, 0},
		{"left", 0, -2, 0, 2, 0},
		{"right", 0, 8, 0, -2, 0},
		{"top", 1, 0, -1, 0, 1},
		{"bottom", 1, 0, 18, 0, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPiece(def, tt.x, tt.y)
			p.Rotation = tt.rotation
			dx, dy := p.overflow(10, 20)
			if dx != tt.dx || dy != tt.dy {
				t.Errorf("overflow = (%d,%d), want (%d,%d)", dx, dy, tt.dx, tt.dy)
			}
			p.Translate(dx, dy)
			if !p.InBounds(10, 20) {
				t.Errorf("piece still out of bounds after overflow shift: %v", p.Blocks())
			}
		})
	}
}

func TestSequenceSourceCycles(t *testing.T) {
	s := NewSequenceSource(TagI, TagO)
	want := []Tag{TagI, TagO, TagI, TagO}
	for i, w := range want {
		if got := s.Next(); got != w {
			t.Errorf("draw %d = %s, want %s", i, got, w)
		}
	}

	if got := NewSequenceSource().Next(); got != TagO {
		t.Errorf("empty sequence draws %s, want O", got)
	}
}

func TestRandomSourceRestore(t *testing.T) {
	a := NewRandomSource(99)
	for range 10 {
		a.Next()
	}
	state, err := a.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	b := NewRandomSource(1)
	if err := b.UnmarshalBinary(state); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	for i := range 50 {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("draw %d differs: %s vs %s", i, x, y)
		}
	}
}
