package autodiff

import (
	"fmt"

	"github.com/born-ml/ecgnet/internal/tensor"
)

// BackwardCapable is an interface for backends that support backward pass.
// AutodiffBackend implements this interface.
type BackwardCapable interface {
	tensor.Backend
	// GetTape returns the gradient tape for backward computation.
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable interface).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes gradients of t with respect to every tensor that fed it
// on the backend's tape. The seed gradient is ones shaped like t.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := lossFn.Forward(net.Forward(x), y)
//	grads := autodiff.Backward(loss, backend)
//	g := grads[param.Tensor().Raw()]
func Backward[B BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	outputGrad, err := tensor.NewRaw(t.Shape(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("backward: failed to create output gradient: %v", err))
	}
	outputGrad.Fill(1)

	return tape.BackwardFrom(t.Raw(), outputGrad, backend)
}

// NoGrad runs fn with recording disabled on the backend's tape and restores
// the previous recording state afterwards, even if fn panics.
func NoGrad[B BackwardCapable](backend B, fn func()) {
	tape := backend.GetTape()
	was := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if was {
			tape.StartRecording()
		}
	}()
	fn()
}
