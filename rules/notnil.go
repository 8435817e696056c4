package rules

import (
	"fmt"

	"github.com/notnil/chess"
)

// Notnil generates moves with notnil/chess, which also performs the
// strictest FEN validation of the three adapters.
type Notnil struct{}

func (Notnil) LegalMoves(fen string) ([]string, error) {
	if err := precheck(fen); err != nil {
		return nil, err
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	game := chess.NewGame(opt)
	pos := game.Position()
	notation := chess.UCINotation{}

	valid := game.ValidMoves()
	out := make([]string, 0, len(valid))
	for _, m := range valid {
		out = append(out, notation.Encode(pos, m))
	}
	return out, nil
}
