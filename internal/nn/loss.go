package nn

import (
	"fmt"

	"github.com/born-ml/ecgnet/internal/tensor"
)

// BCEWithLogitsLoss is binary cross-entropy on logits, averaged over every
// sample and label. Each label is an independent binary problem, which is
// what multi-label ECG diagnosis needs.
//
// The sigmoid is fused into the loss for numerical stability, so the model
// outputs raw logits.
//
// Example:
//
//	criterion := nn.NewBCEWithLogitsLoss(backend)
//	loss := criterion.Forward(logits, labels) // scalar
//	grads := autodiff.Backward(loss, backend)
type BCEWithLogitsLoss[B tensor.Backend] struct {
	backend B
}

// NewBCEWithLogitsLoss creates the loss.
func NewBCEWithLogitsLoss[B tensor.Backend](backend B) *BCEWithLogitsLoss[B] {
	return &BCEWithLogitsLoss[B]{backend: backend}
}

// Forward returns the scalar mean loss of logits against {0,1} targets of
// the same shape.
func (l *BCEWithLogitsLoss[B]) Forward(logits, targets *tensor.Tensor[B]) *tensor.Tensor[B] {
	if !logits.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("bce_with_logits: logits %v and targets %v differ", logits.Shape(), targets.Shape()))
	}
	return tensor.New(l.backend.BCEWithLogits(logits.Raw(), targets.Raw()), l.backend)
}
