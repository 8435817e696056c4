// Package inference defines the neural network boundary: a board plus two
// skill buckets in, policy logits and a value logit out.
package inference

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorgonia.org/tensor"

	"maia-engine/encode"
)

var (
	ErrEngine          = errors.New("inference engine failed")
	ErrMalformedOutput = fmt.Errorf("%w: malformed output", ErrEngine)
)

// Input is one encoded position. EloSelf and EloOppo are bucket indices.
type Input struct {
	Board   encode.Tensor
	EloSelf int
	EloOppo int
}

// Output holds the raw network heads.
type Output struct {
	PolicyLogits []float32
	ValueLogit   float32
}

// Engine runs the network. Implementations wrap backend failures in ErrEngine.
type Engine interface {
	Run(ctx context.Context, in Input) (Output, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, in Input) (Output, error)

func (f EngineFunc) Run(ctx context.Context, in Input) (Output, error) { return f(ctx, in) }

// Validate checks the policy head covers n moves and the value is a number.
func (o Output) Validate(n int) error {
	if len(o.PolicyLogits) < n {
		return fmt.Errorf("%w: %d policy logits, want %d", ErrMalformedOutput, len(o.PolicyLogits), n)
	}
	if math.IsNaN(float64(o.ValueLogit)) {
		return fmt.Errorf("%w: value logit is NaN", ErrMalformedOutput)
	}
	return nil
}

// Validate checks the board has the expected length.
func (in Input) Validate() error {
	if in.Board.Len() != encode.TensorLen {
		return fmt.Errorf("%w: board has %d values, want %d", ErrEngine, in.Board.Len(), encode.TensorLen)
	}
	return nil
}

// Planes returns the board as the flat [1,18,8,8] buffer both backends send,
// read through its dense tensor view after checking the shape.
func (in Input) Planes() ([]float32, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	dense := in.Board.Dense()
	if !dense.Shape().Eq(tensor.Shape(encode.Shape)) {
		return nil, fmt.Errorf("%w: board shape %v, want %v", ErrEngine, dense.Shape(), encode.Shape)
	}
	data, ok := dense.Data().([]float32)
	if !ok {
		return nil, fmt.Errorf("%w: board is %T, want []float32", ErrEngine, dense.Data())
	}
	return data, nil
}

// Wrap marks err as an engine failure unless it already is one.
func Wrap(err error) error {
	if err == nil || errors.Is(err, ErrEngine) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrEngine, err)
}
