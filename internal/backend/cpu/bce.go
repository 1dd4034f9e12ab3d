package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/ecgnet/internal/tensor"
)

// BCEWithLogits computes the mean binary cross-entropy between sigmoid(logits)
// and targets in the log-sum-exp form:
//
//	loss = max(x, 0) - x*y + log(1 + exp(-|x|))
//
// which never evaluates log(0) or overflows exp.
func (cpu *CPUBackend) BCEWithLogits(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	checkSameShape("bce_with_logits", logits, targets)

	x, y := logits.Data(), targets.Data()
	var sum float64
	for i, v := range x {
		xv, yv := float64(v), float64(y[i])
		sum += math.Max(xv, 0) - xv*yv + math.Log1p(math.Exp(-math.Abs(xv)))
	}

	result := tensor.MustRaw(tensor.Shape{}, cpu.device)
	result.Data()[0] = float32(sum / float64(len(x)))
	return result
}

// BCEWithLogitsBackward returns grad * (sigmoid(x) - y) / count.
func (cpu *CPUBackend) BCEWithLogitsBackward(logits, targets, grad *tensor.RawTensor) *tensor.RawTensor {
	checkSameShape("bce_with_logits", logits, targets)

	scale := grad.Data()[0] / float32(logits.NumElements())
	result := tensor.MustRaw(logits.Shape(), cpu.device)
	x, y, dx := logits.Data(), targets.Data(), result.Data()
	for i, v := range x {
		dx[i] = (sigmoid32(v) - y[i]) * scale
	}
	return result
}

func checkSameShape(op string, a, b *tensor.RawTensor) {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a.Shape(), b.Shape()))
	}
}
