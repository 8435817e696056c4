package decode

import (
	"errors"
	"math"
	"testing"

	"maia-engine/encode"
	"maia-engine/fen"
	"maia-engine/mirror"
	"maia-engine/movespace"
	"maia-engine/rules"
)

func prepare(t *testing.T, position string) (fen.Position, fen.Position, bool, encode.Mask, *movespace.Index) {
	t.Helper()
	actual, err := fen.Parse(position)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	canonical, mirrored, err := mirror.Canonicalize(actual)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	idx := movespace.Generate()
	mask, err := encode.LegalMask(canonical, rules.Goose{}, idx)
	if err != nil {
		t.Fatalf("LegalMask: %v", err)
	}
	return actual, canonical, mirrored, mask, idx
}

func TestDecodeSumsToOne(t *testing.T) {
	actual, _, mirrored, mask, idx := prepare(t, fen.StartPos)
	logits := make([]float32, idx.Len())
	for i := range logits {
		logits[i] = float32(i%17) * 0.37
	}
	ev, err := New(idx).Decode(actual, mirrored, logits, 0, mask)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(ev.Policy) != 20 {
		t.Fatalf("expected 20 moves, got %d", len(ev.Policy))
	}
	if s := ev.Policy.Sum(); math.Abs(s-1) > 1e-6 {
		t.Errorf("probabilities sum to %v", s)
	}
	if ev.Value != 0.5 {
		t.Errorf("value: expected 0.5, got %v", ev.Value)
	}
}

func TestDecodeSingleFiniteLogit(t *testing.T) {
	actual, _, mirrored, mask, idx := prepare(t, fen.StartPos)
	logits := make([]float32, idx.Len())
	for i := range logits {
		logits[i] = float32(math.Inf(-1))
	}
	e2e4, _ := idx.IndexOf("e2e4")
	logits[e2e4] = 0
	ev, err := New(idx).Decode(actual, mirrored, logits, 0, mask)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ev.Policy["e2e4"] != 1 {
		t.Errorf("e2e4: expected probability 1, got %v", ev.Policy["e2e4"])
	}
	if best, _ := ev.Policy.Best(); best != "e2e4" {
		t.Errorf("Best: expected e2e4, got %q", best)
	}
}

func TestDecodeMirrored(t *testing.T) {
	position := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	actual, _, mirrored, mask, idx := prepare(t, position)
	if !mirrored {
		t.Fatalf("expected black to move to be mirrored")
	}
	logits := make([]float32, idx.Len())
	// e2e4 in the canonical frame is e7e5 for black.
	e2e4, _ := idx.IndexOf("e2e4")
	logits[e2e4] = 10
	ev, err := New(idx).Decode(actual, mirrored, logits, 0.5, mask)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if best, _ := ev.Policy.Best(); best != "e7e5" {
		t.Errorf("Best: expected e7e5, got %q", best)
	}
	// raw 0.5 maps to 0.75 for white to move, so 0.25 for black.
	if ev.Value != 0.25 {
		t.Errorf("value: expected 0.25, got %v", ev.Value)
	}

	legal, err := rules.LegalSet(rules.Goose{}, position)
	if err != nil {
		t.Fatalf("LegalSet: %v", err)
	}
	for _, mv := range ev.Policy.Moves() {
		if _, ok := legal[mv]; !ok {
			t.Errorf("policy move %s is not legal in the actual position", mv)
		}
	}
	if len(ev.Policy) != len(legal) {
		t.Errorf("expected %d moves, got %d", len(legal), len(ev.Policy))
	}
}

func TestDecodeEmptyMask(t *testing.T) {
	idx := movespace.Generate()
	_, err := New(idx).Decode(fen.MustParse(fen.StartPos), false, make([]float32, idx.Len()), 0, encode.NewMask(idx.Len()))
	if !errors.Is(err, ErrEmptyPolicy) {
		t.Fatalf("expected ErrEmptyPolicy, got %v", err)
	}
}

func TestDecodeShortLogits(t *testing.T) {
	actual, _, mirrored, mask, idx := prepare(t, fen.StartPos)
	_, err := New(idx).Decode(actual, mirrored, make([]float32, 10), 0, mask)
	if !errors.Is(err, ErrLogitsShape) {
		t.Fatalf("expected ErrLogitsShape, got %v", err)
	}
}

func TestDecodeMirrorMismatch(t *testing.T) {
	actual, _, _, mask, idx := prepare(t, fen.StartPos)
	_, err := New(idx).Decode(actual, true, make([]float32, idx.Len()), 0, mask)
	if !errors.Is(err, mirror.ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestDecodeUniformFallback(t *testing.T) {
	actual, _, mirrored, mask, idx := prepare(t, fen.StartPos)
	logits := make([]float32, idx.Len())
	for i := range logits {
		logits[i] = float32(math.NaN())
	}
	ev, err := New(idx).Decode(actual, mirrored, logits, 0, mask)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for mv, p := range ev.Policy {
		if math.Abs(p-1.0/20) > 1e-12 {
			t.Errorf("%s: expected uniform 0.05, got %v", mv, p)
		}
	}
}

func TestSoftmaxPositiveInfinity(t *testing.T) {
	inf := float32(math.Inf(1))
	got := softmax([]float32{inf, 0, 0}, []int{0, 1, 2})
	want := []float64{1, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("single +Inf: got %v want %v", got, want)
		}
	}

	got = softmax([]float32{inf, 5, inf, float32(math.NaN())}, []int{0, 1, 2, 3})
	want = []float64{0.5, 0, 0.5, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("two +Inf: got %v want %v", got, want)
		}
	}
}

func TestDecodePositiveInfinityWins(t *testing.T) {
	actual, _, mirrored, mask, idx := prepare(t, fen.StartPos)
	logits := make([]float32, idx.Len())
	g1f3, _ := idx.IndexOf("g1f3")
	logits[g1f3] = float32(math.Inf(1))
	ev, err := New(idx).Decode(actual, mirrored, logits, 0, mask)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ev.Policy["g1f3"] != 1 {
		t.Errorf("g1f3: expected probability 1, got %v", ev.Policy["g1f3"])
	}
	if s := ev.Policy.Sum(); math.Abs(s-1) > 1e-12 {
		t.Errorf("probabilities sum to %v", s)
	}
}

func TestWinProbability(t *testing.T) {
	cases := []struct {
		raw      float32
		mirrored bool
		want     float64
	}{
		{0, false, 0.5},
		{1, false, 1},
		{-1, false, 0},
		{2, false, 1},
		{-2, false, 0},
		{3, false, 1},
		{-3, true, 1},
		{0.5, true, 0.25},
		{0.12345, false, 0.5617},
		{float32(math.NaN()), false, 0.5},
	}
	for _, tc := range cases {
		if got := WinProbability(tc.raw, tc.mirrored); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("WinProbability(%v, %t): got %v want %v", tc.raw, tc.mirrored, got, tc.want)
		}
	}
}

func TestPolicyHelpers(t *testing.T) {
	p := Policy{"e2e4": 0.4, "d2d4": 0.4, "c2c4": 0.2}
	moves := p.Moves()
	if len(moves) != 3 || moves[0] != "c2c4" || moves[2] != "e2e4" {
		t.Fatalf("Moves: got %v", moves)
	}
	if best, ok := p.Best(); !ok || best != "d2d4" {
		t.Errorf("Best: expected d2d4 on a tie, got %q", best)
	}
	if _, ok := (Policy{}).Best(); ok {
		t.Errorf("Best of an empty policy must report false")
	}
}
