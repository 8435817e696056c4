package rules

import (
	"fmt"

	gm "github.com/Oliverans/GooseEngineMG/goosemg"
)

// Goose generates moves with the GooseEngine move generator.
type Goose struct{}

func (Goose) LegalMoves(fen string) ([]string, error) {
	if err := precheck(fen); err != nil {
		return nil, err
	}
	board, err := gm.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	moves := board.GenerateMoves()
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	return out, nil
}
