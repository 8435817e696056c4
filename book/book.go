// Package book holds recorded opening moves keyed by position and samples a
// legal one by frequency.
package book

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"maia-engine/fen"
	"maia-engine/rules"
	"maia-engine/sample"
)

var ErrSchema = errors.New("book: schema violation")

// Candidate is one recorded move and how often it was played.
type Candidate struct {
	Move  string
	Count int
}

// Book maps a position key (the first four FEN fields) to its candidates.
// It is read-only after New.
type Book struct {
	entries map[string][]Candidate
}

// New validates raw and builds a book. Candidates of each key are sorted by
// descending count, then by move.
func New(raw map[string]map[string]int) (*Book, error) {
	b := &Book{entries: make(map[string][]Candidate, len(raw))}
	for key, moves := range raw {
		if err := checkKey(key); err != nil {
			return nil, err
		}
		if len(moves) == 0 {
			return nil, fmt.Errorf("%w: key %q has no moves", ErrSchema, key)
		}
		cands := make([]Candidate, 0, len(moves))
		for _, mv := range maps.Keys(moves) {
			count := moves[mv]
			if !fen.IsMove(mv) {
				return nil, fmt.Errorf("%w: key %q: malformed move %q", ErrSchema, key, mv)
			}
			if count <= 0 {
				return nil, fmt.Errorf("%w: key %q: move %s has count %d", ErrSchema, key, mv, count)
			}
			cands = append(cands, Candidate{Move: mv, Count: count})
		}
		slices.SortFunc(cands, func(a, b Candidate) int {
			if a.Count != b.Count {
				return b.Count - a.Count
			}
			return strings.Compare(a.Move, b.Move)
		})
		b.entries[key] = cands
	}
	return b, nil
}

func checkKey(key string) error {
	fields := strings.Split(key, " ")
	if len(fields) != 4 {
		return fmt.Errorf("%w: key %q must have four fields", ErrSchema, key)
	}
	if fields[1] != fen.White && fields[1] != fen.Black {
		return fmt.Errorf("%w: key %q: side to move %q", ErrSchema, key, fields[1])
	}
	if _, err := fen.Parse(key); err != nil {
		return fmt.Errorf("%w: key %q: %v", ErrSchema, key, err)
	}
	return nil
}

// Len is the number of positions in the book.
func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Candidates returns a copy of the recorded moves for a key.
func (b *Book) Candidates(key string) []Candidate {
	if b == nil {
		return nil
	}
	return slices.Clone(b.entries[key])
}

// Lookup samples a recorded move of p that r reports legal. It misses when p
// is not in the book or none of its moves is legal. A nil book always misses.
func (b *Book) Lookup(p fen.Position, r rules.Engine, src sample.Source) (string, bool, error) {
	if b == nil {
		return "", false, nil
	}
	cands, ok := b.entries[p.Key()]
	if !ok {
		return "", false, nil
	}
	legal, err := rules.LegalSet(r, p.String())
	if err != nil {
		return "", false, err
	}

	moves := make([]string, 0, len(cands))
	weights := make([]int, 0, len(cands))
	for _, c := range cands {
		if _, ok := legal[c.Move]; ok {
			moves = append(moves, c.Move)
			weights = append(weights, c.Count)
		}
	}
	mv, ok := sample.Weighted(src, moves, weights)
	return mv, ok, nil
}
