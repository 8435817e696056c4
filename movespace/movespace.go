// Package movespace is the fixed bijection between UCI moves and the dense
// indices of the policy head.
package movespace

import (
	"errors"
	"fmt"

	"maia-engine/fen"
)

// TrainedSize is the vocabulary size of the released weights.
const TrainedSize = 1880

var ErrVocabulary = errors.New("invalid move vocabulary")

// Index is immutable once built and safe for concurrent readers.
type Index struct {
	moves []string
	index map[string]int
}

// New builds an Index with moves[i] at index i. Empty lists, duplicates and
// malformed moves are rejected.
func New(moves []string) (*Index, error) {
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrVocabulary)
	}
	idx := &Index{
		moves: make([]string, len(moves)),
		index: make(map[string]int, len(moves)),
	}
	for i, m := range moves {
		if !fen.IsMove(m) {
			return nil, fmt.Errorf("%w: entry %d %q is not a UCI move", ErrVocabulary, i, m)
		}
		if j, dup := idx.index[m]; dup {
			return nil, fmt.Errorf("%w: %q at %d and %d", ErrVocabulary, m, j, i)
		}
		idx.moves[i] = m
		idx.index[m] = i
	}
	return idx, nil
}

// IndexOf returns the index of m, or false when m is not representable.
func (x *Index) IndexOf(m string) (int, bool) {
	i, ok := x.index[m]
	return i, ok
}

// MoveAt returns the move at index i, or false when i is out of range.
func (x *Index) MoveAt(i int) (string, bool) {
	if i < 0 || i >= len(x.moves) {
		return "", false
	}
	return x.moves[i], true
}

// Len is the vocabulary size.
func (x *Index) Len() int { return len(x.moves) }

// Moves returns a copy of the vocabulary in index order.
func (x *Index) Moves() []string {
	out := make([]string, len(x.moves))
	copy(out, x.moves)
	return out
}
