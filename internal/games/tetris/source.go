package tetris

import (
	"encoding/binary"
	"errors"
	"math/rand/v2"
)

// Source picks the tag of each newly generated piece.
type Source interface {
	Next() Tag
}

// RandomSource draws tags uniformly from a seeded PCG generator.
// Its state survives MarshalBinary/UnmarshalBinary, so a restored game
// draws the same pieces as the original would have.
type RandomSource struct {
	pcg *rand.PCG
	rng *rand.Rand
}

// NewRandomSource creates a uniform source seeded with seed.
func NewRandomSource(seed int64) *RandomSource {
	pcg := rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15) //#nosec G115 -- seed bits
	return &RandomSource{pcg: pcg, rng: rand.New(pcg)}
}

// Next returns a uniformly random tag.
func (s *RandomSource) Next() Tag {
	return Tags[s.rng.IntN(len(Tags))]
}

// MarshalBinary captures the generator state.
func (s *RandomSource) MarshalBinary() ([]byte, error) {
	return s.pcg.MarshalBinary()
}

// UnmarshalBinary restores state captured by MarshalBinary.
func (s *RandomSource) UnmarshalBinary(data []byte) error {
	return s.pcg.UnmarshalBinary(data)
}

// SequenceSource replays a fixed list of tags, cycling when exhausted.
// Tests use it to script exact piece orders.
type SequenceSource struct {
	tags []Tag
	pos  int
}

// NewSequenceSource creates a source that yields tags in order.
func NewSequenceSource(tags ...Tag) *SequenceSource {
	if len(tags) == 0 {
		tags = []Tag{TagO}
	}
	return &SequenceSource{tags: tags}
}

// Next returns the next scripted tag.
func (s *SequenceSource) Next() Tag {
	tag := s.tags[s.pos%len(s.tags)]
	s.pos++
	return tag
}

// MarshalBinary captures the read position.
func (s *SequenceSource) MarshalBinary() ([]byte, error) {
	return binary.AppendUvarint(nil, uint64(s.pos)), nil //#nosec G115 -- position is never negative
}

// UnmarshalBinary restores a position captured by MarshalBinary.
func (s *SequenceSource) UnmarshalBinary(data []byte) error {
	pos, n := binary.Uvarint(data)
	if n <= 0 {
		return errors.New("tetris: bad sequence state")
	}
	s.pos = int(pos) //#nosec G115 -- written by MarshalBinary
	return nil
}
