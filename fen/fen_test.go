package fen

import (
	"errors"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	fens := []string{
		StartPos,
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"8/8/8/8/8/8/8/K6k w - - 12 40",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
	}
	for _, s := range fens {
		p, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := p.String(); got != s {
			t.Errorf("round trip: got %q want %q", got, s)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR  w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 extra",
	}
	for _, s := range bad {
		if _, err := Parse(s); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q): expected ErrMalformed, got %v", s, err)
		}
	}
}

func TestKeyIgnoresClocks(t *testing.T) {
	a := MustParse("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	b := MustParse("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 7 23")
	if a.Key() != b.Key() {
		t.Fatalf("keys differ: %q vs %q", a.Key(), b.Key())
	}
	want := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"
	if a.Key() != want {
		t.Fatalf("key: got %q want %q", a.Key(), want)
	}
}

func TestSquares(t *testing.T) {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			name := SquareName(file, rank)
			f, r, ok := ParseSquare(name)
			if !ok || f != file || r != rank {
				t.Fatalf("ParseSquare(%q) = %d,%d,%v", name, f, r, ok)
			}
		}
	}
	for _, s := range []string{"", "e", "i1", "a0", "a9", "e44"} {
		if _, _, ok := ParseSquare(s); ok {
			t.Errorf("ParseSquare(%q) accepted", s)
		}
	}
}

func TestIsMove(t *testing.T) {
	good := []string{"e2e4", "g1f3", "e7e8q", "a2a1n"}
	bad := []string{"e2e", "e2e4k", "e2e9", "e7e8Q", "0000"}
	for _, m := range good {
		if !IsMove(m) {
			t.Errorf("IsMove(%q) = false", m)
		}
	}
	for _, m := range bad {
		if IsMove(m) {
			t.Errorf("IsMove(%q) = true", m)
		}
	}
}
