package ops

import (
	"github.com/born-ml/ecgnet/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape.
// This is necessary when broadcasting was used in the forward pass.
//
// Example:
//
//	Forward: bias[1,C,1] + x[N,C,L] -> y[N,C,L]  (bias broadcast over N and L)
//	Backward: grad_y[N,C,L] -> grad_bias[1,C,1] (sum over dims 0 and 2)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()
	if gradShape.Equal(targetShape) {
		return grad
	}

	result := grad

	// Leading dimensions added by broadcasting are summed away entirely.
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	// Dimensions where the target was 1 are summed with keepDim.
	for i, dim := range targetShape {
		if dim == 1 && result.Shape()[i] > 1 {
			result = backend.SumDim(result, i, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// mapWith builds a new tensor where out[i] = f(i) for every element of like.
func mapWith(like *tensor.RawTensor, device tensor.Device, f func(i int) float32) *tensor.RawTensor {
	result := tensor.MustRaw(like.Shape(), device)
	data := result.Data()
	for i := range data {
		data[i] = f(i)
	}
	return result
}
