// Package encode turns a canonical position into the network's input planes
// and its legal moves into a mask over the move vocabulary.
package encode

import "gorgonia.org/tensor"

// Board tensor geometry: 12 piece planes, side to move, 4 castling planes and
// en passant, each 8x8.
const (
	Channels      = 18
	Size          = 8
	PlaneSize     = Size * Size
	TensorLen     = Channels * PlaneSize
	PieceChannels = 12

	SideChannel      = 12
	CastlingChannel  = 13
	EnPassantChannel = 17
)

// Shape is the batched input shape fed to the network.
var Shape = []int{1, Channels, Size, Size}

// Tensor is the encoded board. It is never modified after Encode returns.
type Tensor struct {
	data []float32
}

// Len returns the number of values, TensorLen for encoded boards.
func (t Tensor) Len() int { return len(t.data) }

// At returns the value at flat offset i.
func (t Tensor) At(i int) float32 { return t.data[i] }

// Channel returns a copy of the 64 values of channel c.
func (t Tensor) Channel(c int) []float32 {
	out := make([]float32, PlaneSize)
	copy(out, t.data[c*PlaneSize:(c+1)*PlaneSize])
	return out
}

// ChannelSum adds up the values of channel c.
func (t Tensor) ChannelSum(c int) float32 {
	var sum float32
	for _, v := range t.data[c*PlaneSize : (c+1)*PlaneSize] {
		sum += v
	}
	return sum
}

// CopyTo copies the values into dst and returns the number copied.
func (t Tensor) CopyTo(dst []float32) int { return copy(dst, t.data) }

// Values returns a copy of the flat buffer.
func (t Tensor) Values() []float32 {
	out := make([]float32, len(t.data))
	copy(out, t.data)
	return out
}

// Dense returns the board as a [1,18,8,8] dense tensor backed by a copy.
func (t Tensor) Dense() *tensor.Dense {
	return tensor.New(tensor.WithShape(Shape...), tensor.WithBacking(t.Values()))
}

// FromValues wraps a flat buffer. The slice is copied.
func FromValues(v []float32) Tensor {
	data := make([]float32, len(v))
	copy(data, v)
	return Tensor{data: data}
}
