package encode

import (
	"strings"

	"maia-engine/fen"
)

// pieceChannel maps FEN piece letters to their plane: White P N B R Q K,
// then Black p n b r q k.
func pieceChannel(ch byte) int {
	switch ch {
	case 'P':
		return 0
	case 'N':
		return 1
	case 'B':
		return 2
	case 'R':
		return 3
	case 'Q':
		return 4
	case 'K':
		return 5
	case 'p':
		return 6
	case 'n':
		return 7
	case 'b':
		return 8
	case 'r':
		return 9
	case 'q':
		return 10
	case 'k':
		return 11
	default:
		return -1
	}
}

var castlingOrder = [4]byte{'K', 'Q', 'k', 'q'}

// Encode fills the 18 planes from p. Within a plane a square sits at
// rank*8+file (a1 = 0, h8 = 63) in every channel, en passant included.
//
// Every plane is read from p as given, the side to move included; callers
// pass the canonical position, where that plane comes out all ones.
func Encode(p fen.Position) Tensor {
	data := make([]float32, TensorLen)

	for i, row := range p.Rows() {
		if i >= Size {
			break
		}
		plane := (Size - 1 - i) * Size
		file := 0
		for j := 0; j < len(row) && file < Size; j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if c := pieceChannel(ch); c >= 0 {
				data[c*PlaneSize+plane+file] = 1
			}
			file++
		}
	}

	if p.Side == fen.White {
		fill(data, SideChannel, 1)
	}

	for i, right := range castlingOrder {
		if strings.IndexByte(p.Castling, right) >= 0 {
			fill(data, CastlingChannel+i, 1)
		}
	}

	if file, rank, ok := fen.ParseSquare(p.EnPassant); ok {
		data[EnPassantChannel*PlaneSize+fen.SquareIndex(file, rank)] = 1
	}

	return Tensor{data: data}
}

func fill(data []float32, channel int, v float32) {
	plane := data[channel*PlaneSize : (channel+1)*PlaneSize]
	for i := range plane {
		plane[i] = v
	}
}
