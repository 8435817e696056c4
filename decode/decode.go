// Package decode turns raw network outputs into a move distribution over the
// legal moves of the actual position and a calibrated win probability.
package decode

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"maia-engine/encode"
	"maia-engine/fen"
	"maia-engine/mirror"
	"maia-engine/movespace"
)

var (
	ErrEmptyPolicy = errors.New("decode: no legal moves in the mask")
	ErrLogitsShape = errors.New("decode: policy logits shorter than the move vocabulary")
)

// Evaluation is the decoded result for one position. Value is the win
// probability of the side to move in the actual position.
type Evaluation struct {
	Policy   Policy
	Value    float64
	FromBook bool
}

// Decoder maps policy indices back to moves through Index.
type Decoder struct {
	Index *movespace.Index
}

func New(idx *movespace.Index) *Decoder {
	return &Decoder{Index: idx}
}

// Decode applies a stable softmax over the masked logits and calibrates the
// value logit. When wasMirrored is set, moves are mirrored back and the value
// is taken from the other side. actual is the position before
// canonicalization; its side to move must agree with wasMirrored.
func (d *Decoder) Decode(actual fen.Position, wasMirrored bool, logits []float32, value float32, mask encode.Mask) (Evaluation, error) {
	if wasMirrored != (actual.Side == fen.Black) {
		return Evaluation{}, fmt.Errorf("%w: side %q with mirrored=%t", mirror.ErrInvalidPosition, actual.Side, wasMirrored)
	}
	legal := mask.Indices()
	if len(legal) == 0 {
		return Evaluation{}, ErrEmptyPolicy
	}
	if len(logits) < d.Index.Len() {
		return Evaluation{}, fmt.Errorf("%w: got %d, want %d", ErrLogitsShape, len(logits), d.Index.Len())
	}

	moves := make([]string, 0, len(legal))
	for _, i := range legal {
		mv, ok := d.Index.MoveAt(i)
		if !ok {
			return Evaluation{}, fmt.Errorf("%w: mask index %d outside vocabulary", ErrLogitsShape, i)
		}
		if wasMirrored {
			mv = mirror.Move(mv)
		}
		moves = append(moves, mv)
	}

	probs := softmax(logits, legal)
	policy := make(Policy, len(moves))
	for i, mv := range moves {
		policy[mv] = probs[i]
	}

	return Evaluation{Policy: policy, Value: WinProbability(value, wasMirrored)}, nil
}

// WinProbability maps a value logit, nominally in [-2, 2], to [0, 1] by
// v/2+0.5 with clamping, flips it for a mirrored position and rounds half-up to four decimals.
func WinProbability(raw float32, mirrored bool) float64 {
	v := clamp(float64(raw)/2+0.5, 0, 1)
	if math.IsNaN(v) {
		v = 0.5
	}
	if mirrored {
		v = 1 - v
	}
	return math.Floor(v*10000+0.5) / 10000
}

// softmax over logits[idx...]. +Inf logits share all the mass evenly. Falls
// back to uniform when the legal logits carry no usable mass.
func softmax(logits []float32, idx []int) []float64 {
	out := make([]float64, len(idx))
	maxLogit := math.Inf(-1)
	top := 0
	for _, i := range idx {
		l := float64(logits[i])
		if math.IsInf(l, 1) {
			top++
		}
		if !math.IsNaN(l) && l > maxLogit {
			maxLogit = l
		}
	}
	if top > 0 {
		for k, i := range idx {
			if math.IsInf(float64(logits[i]), 1) {
				out[k] = 1 / float64(top)
			}
		}
		return out
	}
	if math.IsInf(maxLogit, -1) {
		return uniform(out)
	}

	var sum float64
	for k, i := range idx {
		l := float64(logits[i])
		if math.IsNaN(l) {
			continue
		}
		out[k] = math.Exp(l - maxLogit)
		sum += out[k]
	}
	if !(sum > 0) || math.IsInf(sum, 0) {
		return uniform(out)
	}
	for k := range out {
		out[k] /= sum
	}
	return out
}

func uniform(out []float64) []float64 {
	p := 1 / float64(len(out))
	for k := range out {
		out[k] = p
	}
	return out
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
