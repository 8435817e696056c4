package encode

import (
	"math/bits"

	"maia-engine/fen"
	"maia-engine/movespace"
	"maia-engine/rules"
)

// Mask flags vocabulary indices. Its size is fixed at construction.
type Mask struct {
	words []uint64
	n     int
}

// NewMask returns an empty mask over n indices.
func NewMask(n int) Mask {
	return Mask{words: make([]uint64, (n+63)/64), n: n}
}

// Len is the number of indices covered.
func (m Mask) Len() int { return m.n }

// Set flags index i. Out-of-range indices are ignored.
func (m Mask) Set(i int) {
	if i < 0 || i >= m.n {
		return
	}
	m.words[i/64] |= 1 << uint(i%64)
}

func (m Mask) Has(i int) bool {
	if i < 0 || i >= m.n {
		return false
	}
	return m.words[i/64]&(1<<uint(i%64)) != 0
}

// Count returns how many indices are set.
func (m Mask) Count() int {
	c := 0
	for _, w := range m.words {
		c += bits.OnesCount64(w)
	}
	return c
}

// Indices lists the set indices in ascending order.
func (m Mask) Indices() []int {
	out := make([]int, 0, m.Count())
	for wi, w := range m.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, wi*64+b)
			w &= w - 1
		}
	}
	return out
}

// LegalMask flags every legal move of p that the vocabulary can represent.
// Legal moves outside the vocabulary are skipped. The only error is one
// returned by the rules engine.
func LegalMask(p fen.Position, r rules.Engine, idx *movespace.Index) (Mask, error) {
	moves, err := r.LegalMoves(p.String())
	if err != nil {
		return Mask{}, err
	}
	mask := NewMask(idx.Len())
	for _, mv := range moves {
		if i, ok := idx.IndexOf(mv); ok {
			mask.Set(i)
		}
	}
	return mask, nil
}
