package fen

// ParseSquare converts an algebraic square such as "e4" into zero-based file
// and rank.
func ParseSquare(s string) (file, rank int, ok bool) {
	if len(s) != 2 {
		return 0, 0, false
	}
	f, r := s[0], s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return 0, 0, false
	}
	return int(f - 'a'), int(r - '1'), true
}

// SquareName is the inverse of ParseSquare. Coordinates must be in 0..7.
func SquareName(file, rank int) string {
	return string([]byte{'a' + byte(file), '1' + byte(rank)})
}

// SquareIndex maps a square to 0..63, a1 = 0, h8 = 63.
func SquareIndex(file, rank int) int { return rank*8 + file }

// IsMove reports whether s is well-formed UCI move notation: two squares and
// an optional lowercase promotion piece.
func IsMove(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	if _, _, ok := ParseSquare(s[0:2]); !ok {
		return false
	}
	if _, _, ok := ParseSquare(s[2:4]); !ok {
		return false
	}
	if len(s) == 5 {
		switch s[4] {
		case 'q', 'r', 'b', 'n':
		default:
			return false
		}
	}
	return true
}
