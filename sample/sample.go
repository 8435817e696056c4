// Package sample draws from weighted candidate lists with an injectable
// uniform random source.
package sample

import "math/rand"

// Source produces uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() float64

func (f SourceFunc) Float64() float64 { return f() }

// Default is the goroutine-safe global generator.
func Default() Source { return SourceFunc(rand.Float64) }

// Numeric is the weight type accepted by Weighted.
type Numeric interface {
	~int | ~int64 | ~float32 | ~float64
}

// Weighted picks one item with probability proportional to its weight.
// Weights are expected to be positive. One value r in [0, total) is drawn
// and the weights are subtracted in order until r drops to zero or below.
// If rounding leaves r positive after the last weight, the last item is
// returned. ok is false only when items is empty.
func Weighted[T any, W Numeric](src Source, items []T, weights []W) (item T, ok bool) {
	n := len(items)
	if len(weights) < n {
		n = len(weights)
	}
	if n == 0 {
		return item, false
	}

	var total float64
	for _, w := range weights[:n] {
		total += float64(w)
	}
	r := src.Float64() * total
	for i := 0; i < n; i++ {
		r -= float64(weights[i])
		if r <= 0 {
			return items[i], true
		}
	}
	return items[n-1], true
}
