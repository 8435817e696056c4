// Package fen holds the six-field position record the pipeline passes around.
//
// Only the structure is checked here. Legality and deeper validation belong to
// the rules engine.
package fen

import (
	"errors"
	"fmt"
	"strings"
)

// StartPos is the FEN string for the standard initial chess position.
const StartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Side tokens.
const (
	White = "w"
	Black = "b"
)

// None marks empty castling rights and a missing en passant target.
const None = "-"

var ErrMalformed = errors.New("malformed FEN")

// Position is a FEN split into its fields. Halfmove and Fullmove are empty
// when the source string carried only the first four fields.
type Position struct {
	Placement string
	Side      string
	Castling  string
	EnPassant string
	Halfmove  string
	Fullmove  string
}

// Parse splits a FEN string into a Position. Between four and six
// single-space separated fields are accepted.
func Parse(s string) (Position, error) {
	fields := strings.Split(s, " ")
	if len(fields) < 4 || len(fields) > 6 {
		return Position{}, fmt.Errorf("%w: expected 4 to 6 fields, got %d", ErrMalformed, len(fields))
	}
	for i, f := range fields {
		if f == "" {
			return Position{}, fmt.Errorf("%w: empty field %d", ErrMalformed, i+1)
		}
	}
	if n := strings.Count(fields[0], "/"); n != 7 {
		return Position{}, fmt.Errorf("%w: expected 8 ranks, got %d", ErrMalformed, n+1)
	}

	p := Position{
		Placement: fields[0],
		Side:      fields[1],
		Castling:  fields[2],
		EnPassant: fields[3],
	}
	if len(fields) > 4 {
		p.Halfmove = fields[4]
	}
	if len(fields) > 5 {
		p.Fullmove = fields[5]
	}
	return p, nil
}

// MustParse is Parse that panics on error, for constants and tests.
func MustParse(s string) Position {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String joins the fields back into FEN notation.
func (p Position) String() string {
	var sb strings.Builder
	sb.WriteString(p.Key())
	if p.Halfmove != "" {
		sb.WriteByte(' ')
		sb.WriteString(p.Halfmove)
	}
	if p.Fullmove != "" {
		sb.WriteByte(' ')
		sb.WriteString(p.Fullmove)
	}
	return sb.String()
}

// Key is the first four fields, so positions that differ only in their move
// clocks share a key.
func (p Position) Key() string {
	return p.Placement + " " + p.Side + " " + p.Castling + " " + p.EnPassant
}

// KeyOf returns the canonical key of a raw FEN string.
func KeyOf(s string) (string, error) {
	p, err := Parse(s)
	if err != nil {
		return "", err
	}
	return p.Key(), nil
}

// Rows returns the placement rows from rank 8 down to rank 1.
func (p Position) Rows() []string {
	return strings.Split(p.Placement, "/")
}
