package ops

import "github.com/born-ml/ecgnet/internal/tensor"

// ReLUOp represents output = max(0, x).
//
// Backward: grad_x = g where x > 0, else 0.
type ReLUOp struct{ unaryOp }

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{unaryOp{input, output}}
}

// Backward computes input gradient for ReLU.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x, g := op.input.Data(), outputGrad.Data()
	return []*tensor.RawTensor{mapWith(op.input, backend.Device(), func(i int) float32 {
		if x[i] > 0 {
			return g[i]
		}
		return 0
	})}
}

// SigmoidOp represents output = 1 / (1 + exp(-x)).
//
// Backward reuses the output: grad_x = g * y * (1 - y).
type SigmoidOp struct{ unaryOp }

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp(input, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{unaryOp{input, output}}
}

// Backward computes the gradient for sigmoid.
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	y, g := op.output.Data(), outputGrad.Data()
	return []*tensor.RawTensor{mapWith(op.input, backend.Device(), func(i int) float32 {
		return g[i] * y[i] * (1 - y[i])
	})}
}

// ExpOp represents output = e^x. Backward: grad_x = g * y.
type ExpOp struct{ unaryOp }

// NewExpOp creates a new ExpOp.
func NewExpOp(input, output *tensor.RawTensor) *ExpOp {
	return &ExpOp{unaryOp{input, output}}
}

// Backward computes the gradient for exp.
func (op *ExpOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, op.output)}
}

// LogOp represents output = ln(x). Backward: grad_x = g / x.
type LogOp struct{ unaryOp }

// NewLogOp creates a new LogOp.
func NewLogOp(input, output *tensor.RawTensor) *LogOp {
	return &LogOp{unaryOp{input, output}}
}

// Backward computes the gradient for log.
func (op *LogOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Div(outputGrad, op.input)}
}

// SqrtOp represents output = sqrt(x). Backward: grad_x = g / (2y).
type SqrtOp struct{ unaryOp }

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(input, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{unaryOp{input, output}}
}

// Backward computes the gradient for sqrt.
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Div(outputGrad, backend.MulScalar(op.output, 2))}
}

// RsqrtOp represents output = x^(-1/2). Backward: grad_x = -g * y³ / 2.
type RsqrtOp struct{ unaryOp }

// NewRsqrtOp creates a new RsqrtOp.
func NewRsqrtOp(input, output *tensor.RawTensor) *RsqrtOp {
	return &RsqrtOp{unaryOp{input, output}}
}

// Backward computes the gradient for rsqrt.
func (op *RsqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	y, g := op.output.Data(), outputGrad.Data()
	return []*tensor.RawTensor{mapWith(op.input, backend.Device(), func(i int) float32 {
		return -0.5 * g[i] * y[i] * y[i] * y[i]
	})}
}
