package optim_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ecgnet/internal/autodiff"
	"github.com/born-ml/ecgnet/internal/backend/cpu"
	"github.com/born-ml/ecgnet/internal/nn"
	"github.com/born-ml/ecgnet/internal/optim"
	"github.com/born-ml/ecgnet/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func scalarParam(t *testing.T, backend testBackend, values ...float32) *nn.Parameter[testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(values, tensor.Shape{len(values)}, backend)
	require.NoError(t, err)
	return nn.NewParameter("x", x)
}

func gradFor(t *testing.T, param *nn.Parameter[testBackend], values ...float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	grad, err := tensor.NewRaw(tensor.Shape{len(values)}, param.Tensor().Device())
	require.NoError(t, err)
	copy(grad.Data(), values)
	return map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor().Raw(): grad}
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 2.0)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param}, optim.SGDConfig{LR: 0.1})
	optimizer.Step(gradFor(t, param, 1.0))

	// x_new = 2.0 - 0.1 * 1.0
	assert.InDelta(t, 1.9, param.Tensor().Data()[0], 1e-6)
}

// TestSGD_WithMomentum tests SGD with momentum over two steps.
func TestSGD_WithMomentum(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 1.0)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// v1 = 1.0, x = 1.0 - 0.1
	optimizer.Step(gradFor(t, param, 1.0))
	assert.InDelta(t, 0.9, param.Tensor().Data()[0], 1e-6)

	// v2 = 0.9 + 1.0 = 1.9, x = 0.9 - 0.19
	optimizer.Step(gradFor(t, param, 1.0))
	assert.InDelta(t, 0.71, param.Tensor().Data()[0], 1e-6)
}

func TestSGD_WeightDecay(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 2.0)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param}, optim.SGDConfig{LR: 0.1, WeightDecay: 0.5})
	optimizer.Step(gradFor(t, param, 0.0))

	// g = 0 + 0.5*2 = 1
	assert.InDelta(t, 1.9, param.Tensor().Data()[0], 1e-6)
}

// TestAdam_FirstStep checks that the bias-corrected first step moves each
// coordinate by lr in the direction opposite the gradient sign.
func TestAdam_FirstStep(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 1.0, -1.0, 0.5)

	optimizer := optim.NewAdam([]*nn.Parameter[testBackend]{param}, optim.AdamConfig{LR: 0.01})
	optimizer.Step(gradFor(t, param, 3.0, -0.2, 1e-3))

	got := param.Tensor().Data()
	assert.InDelta(t, 0.99, got[0], 1e-5)
	assert.InDelta(t, -0.99, got[1], 1e-5)
	assert.InDelta(t, 0.49, got[2], 1e-4)
	assert.Equal(t, 1, optimizer.Steps())
}

func TestAdam_Defaults(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 1.0)

	optimizer := optim.NewAdam([]*nn.Parameter[testBackend]{param}, optim.AdamConfig{})
	assert.InDelta(t, 0.001, optimizer.GetLR(), 1e-9)

	optimizer.SetLR(0.5)
	assert.InDelta(t, 0.5, optimizer.GetLR(), 1e-9)
}

func TestOptimizers_SkipParametersWithoutGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	used := scalarParam(t, backend, 1.0)
	unused := scalarParam(t, backend, 5.0)
	params := []*nn.Parameter[testBackend]{used, unused}

	for _, name := range []string{"adam", "sgd"} {
		t.Run(name, func(t *testing.T) {
			optimizer, err := optim.New(params, optim.Config{Name: name, LR: 0.1})
			require.NoError(t, err)
			optimizer.Step(gradFor(t, used, 1.0))
			assert.Equal(t, float32(5.0), unused.Tensor().Data()[0])
		})
	}
}

func TestNew_UnknownOptimizer(t *testing.T) {
	_, err := optim.New[testBackend](nil, optim.Config{Name: "rmsprop"})
	assert.Error(t, err)
}

// TestAdam_MinimizesQuadratic runs the full record/backward/step loop on
// f(x) = mean((x - 3)²).
func TestAdam_MinimizesQuadratic(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(7))
	param := nn.NewParameter("x", tensor.Randn(tensor.Shape{4}, rng, backend))
	target := tensor.Full(tensor.Shape{4}, 3, backend)

	optimizer := optim.NewAdam([]*nn.Parameter[testBackend]{param}, optim.AdamConfig{LR: 0.1})
	for i := 0; i < 300; i++ {
		backend.Tape().StartRecording()
		diff := param.Tensor().Sub(target)
		loss := diff.Mul(diff).MeanDim(0, false)
		grads := autodiff.Backward(loss, backend)
		optimizer.Step(grads)
		optimizer.ZeroGrad()
		backend.Tape().Clear()
	}

	for _, v := range param.Tensor().Data() {
		assert.False(t, math.IsNaN(float64(v)))
		assert.InDelta(t, 3.0, v, 0.05)
	}
}
