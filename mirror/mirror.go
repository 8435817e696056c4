// Package mirror flips positions and moves so the network always sees the
// side to move as White.
package mirror

import (
	"errors"
	"fmt"
	"strings"

	"maia-engine/fen"
)

var ErrInvalidPosition = errors.New("invalid position: side to move must be 'w' or 'b'")

// Square mirrors a square across the horizontal axis: the file is kept and
// rank r becomes 9-r. Input that is not a two-character square is returned
// as is.
func Square(sq string) string {
	if len(sq) != 2 || sq[1] < '1' || sq[1] > '8' {
		return sq
	}
	return string([]byte{sq[0], '1' + ('8' - sq[1])})
}

// Move mirrors both squares of a UCI move. The promotion suffix, if any, is
// copied unchanged.
func Move(m string) string {
	if len(m) < 4 {
		return m
	}
	return Square(m[0:2]) + Square(m[2:4]) + m[4:]
}

// Position mirrors a position: ranks are reversed and recoloured, the side
// to move is flipped, castling letters swap case and the en passant target
// is mirrored. Move clocks pass through, and so does a side token other
// than w or b. Applying Position twice returns the input unchanged.
func Position(p fen.Position) fen.Position {
	rows := p.Rows()
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	for i := range rows {
		rows[i] = swapCase(rows[i])
	}

	side := p.Side
	switch p.Side {
	case fen.White:
		side = fen.Black
	case fen.Black:
		side = fen.White
	}

	castling := p.Castling
	if castling != fen.None {
		castling = swapCase(castling)
	}

	ep := p.EnPassant
	if ep != fen.None {
		ep = Square(ep)
	}

	return fen.Position{
		Placement: strings.Join(rows, "/"),
		Side:      side,
		Castling:  castling,
		EnPassant: ep,
		Halfmove:  p.Halfmove,
		Fullmove:  p.Fullmove,
	}
}

// Canonicalize returns the position as seen by White. When Black is to move
// the whole position is mirrored and wasMirrored is true.
func Canonicalize(p fen.Position) (canonical fen.Position, wasMirrored bool, err error) {
	switch p.Side {
	case fen.White:
		return p, false, nil
	case fen.Black:
		return Position(p), true, nil
	default:
		return fen.Position{}, false, fmt.Errorf("%w: got %q", ErrInvalidPosition, p.Side)
	}
}

func swapCase(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		case c >= 'A' && c <= 'Z':
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}
