package movespace

import "maia-engine/fen"

var promotionPieces = [4]byte{'q', 'r', 'b', 'n'}

// Generate builds the canonical vocabulary from White's side of the board.
//
// From-squares run a1, b1, ..., h8. For each one the queen moves come first,
// then the knight moves, each group with destinations in descending square
// order. The 88 promotions follow: for every rank-7 file a..h, destination
// files file-1, file, file+1 (when on the board), pieces q, r, b, n.
func Generate() *Index {
	moves := make([]string, 0, TrainedSize)
	for from := 0; from < 64; from++ {
		ff, fr := from%8, from/8
		src := fen.SquareName(ff, fr)
		for to := 63; to >= 0; to-- {
			if queenReaches(ff, fr, to%8, to/8) {
				moves = append(moves, src+fen.SquareName(to%8, to/8))
			}
		}
		for to := 63; to >= 0; to-- {
			if knightReaches(ff, fr, to%8, to/8) {
				moves = append(moves, src+fen.SquareName(to%8, to/8))
			}
		}
	}
	for file := 0; file < 8; file++ {
		src := fen.SquareName(file, 6)
		for df := -1; df <= 1; df++ {
			tf := file + df
			if tf < 0 || tf > 7 {
				continue
			}
			dst := fen.SquareName(tf, 7)
			for _, p := range promotionPieces {
				moves = append(moves, src+dst+string(p))
			}
		}
	}

	idx, err := New(moves)
	if err != nil {
		panic("movespace: generated vocabulary is invalid: " + err.Error())
	}
	return idx
}

func queenReaches(ff, fr, tf, tr int) bool {
	df, dr := abs(tf-ff), abs(tr-fr)
	if df == 0 && dr == 0 {
		return false
	}
	return df == 0 || dr == 0 || df == dr
}

func knightReaches(ff, fr, tf, tr int) bool {
	df, dr := abs(tf-ff), abs(tr-fr)
	return (df == 1 && dr == 2) || (df == 2 && dr == 1)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
