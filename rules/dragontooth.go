package rules

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
)

// Dragontooth generates moves with dragontoothmg. Its FEN parser panics on
// some malformed input, so parsing is guarded.
type Dragontooth struct{}

func (Dragontooth) LegalMoves(fen string) (moves []string, err error) {
	if err := precheck(fen); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			moves, err = nil, fmt.Errorf("%w: %v", ErrInvalidFEN, r)
		}
	}()

	board := dragontoothmg.ParseFen(fen)
	legal := board.GenerateLegalMoves()
	moves = make([]string, 0, len(legal))
	for i := range legal {
		moves = append(moves, legal[i].String())
	}
	return moves, nil
}
