package decode

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Policy maps UCI moves to probabilities.
type Policy map[string]float64

// Moves returns the moves in lexical order.
func (p Policy) Moves() []string {
	keys := maps.Keys(p)
	slices.Sort(keys)
	return keys
}

// Best returns the most probable move. Ties go to the lexically first move.
func (p Policy) Best() (string, bool) {
	best, bestP, found := "", -1.0, false
	for _, mv := range p.Moves() {
		if pr := p[mv]; pr > bestP {
			best, bestP, found = mv, pr, true
		}
	}
	return best, found
}

// Sum returns the total probability mass.
func (p Policy) Sum() float64 {
	var s float64
	for _, pr := range p {
		s += pr
	}
	return s
}
