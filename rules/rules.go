// Package rules adapts third-party move generators to the one question the
// pipeline asks of them: which moves are legal here.
package rules

import (
	"errors"
	"fmt"

	"maia-engine/fen"
)

var (
	ErrInvalidFEN    = errors.New("rules: invalid FEN")
	ErrUnknownEngine = errors.New("rules: unknown engine")
)

// Engine lists the legal moves of a position in UCI notation.
type Engine interface {
	LegalMoves(fen string) ([]string, error)
}

// Names accepted by New.
const (
	NameGoose       = "goose"
	NameDragontooth = "dragontooth"
	NameNotnil      = "notnil"
)

// New returns the engine registered under name.
func New(name string) (Engine, error) {
	switch name {
	case NameGoose, "":
		return Goose{}, nil
	case NameDragontooth:
		return Dragontooth{}, nil
	case NameNotnil:
		return Notnil{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

// LegalSet returns the legal moves of a position as a set.
func LegalSet(e Engine, position string) (map[string]struct{}, error) {
	moves, err := e.LegalMoves(position)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(moves))
	for _, m := range moves {
		set[m] = struct{}{}
	}
	return set, nil
}

// precheck rejects input the move generators would misparse or panic on.
func precheck(s string) error {
	p, err := fen.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	if p.Side != fen.White && p.Side != fen.Black {
		return fmt.Errorf("%w: side to move %q", ErrInvalidFEN, p.Side)
	}
	return nil
}
