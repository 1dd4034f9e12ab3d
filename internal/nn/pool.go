package nn

import (
	"fmt"

	"github.com/born-ml/ecgnet/internal/tensor"
)

// MaxPool1D takes the maximum over sliding windows of the last axis.
// Padded positions never win.
type MaxPool1D[B tensor.Backend] struct {
	kernelSize int
	stride     int
	padding    int
	backend    B
}

// NewMaxPool1D creates a max pooling layer.
func NewMaxPool1D[B tensor.Backend](kernelSize, stride, padding int, backend B) *MaxPool1D[B] {
	if kernelSize <= 0 || stride <= 0 || padding < 0 {
		panic(fmt.Sprintf("maxpool1d: invalid kernel=%d stride=%d padding=%d", kernelSize, stride, padding))
	}
	return &MaxPool1D[B]{kernelSize: kernelSize, stride: stride, padding: padding, backend: backend}
}

// Forward applies max pooling to [N, C, L].
func (m *MaxPool1D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return tensor.New(m.backend.MaxPool1D(input.Raw(), m.kernelSize, m.stride, m.padding), m.backend)
}

// Parameters returns nil: pooling has no trainable parameters.
func (m *MaxPool1D[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns a string representation of the layer.
func (m *MaxPool1D[B]) String() string {
	return fmt.Sprintf("MaxPool1D(kernel_size=%d, stride=%d, padding=%d)", m.kernelSize, m.stride, m.padding)
}

// GlobalAvgPool1D averages over the length axis: [N, C, L] -> [N, C].
//
// It removes the dependence on input length, so the classifier head sees a
// fixed-size vector for any signal that survives the downsampling.
type GlobalAvgPool1D[B tensor.Backend] struct{}

// NewGlobalAvgPool1D creates a global average pooling layer.
func NewGlobalAvgPool1D[B tensor.Backend]() *GlobalAvgPool1D[B] {
	return &GlobalAvgPool1D[B]{}
}

// Forward averages input over its last axis.
func (g *GlobalAvgPool1D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	if len(input.Shape()) != 3 {
		panic(fmt.Sprintf("globalavgpool1d: expected 3D input [N,C,L], got %v", input.Shape()))
	}
	return input.MeanDim(2, false)
}

// Parameters returns nil.
func (g *GlobalAvgPool1D[B]) Parameters() []*Parameter[B] {
	return nil
}
