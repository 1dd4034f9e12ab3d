package nn

import "github.com/born-ml/ecgnet/internal/tensor"

// ReLU applies max(0, x) element-wise.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU.
func (r *ReLU[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return input.ReLU()
}

// Parameters returns nil.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// Sigmoid turns logits into independent per-label probabilities.
func Sigmoid[B tensor.Backend](logits *tensor.Tensor[B]) *tensor.Tensor[B] {
	return logits.Sigmoid()
}
