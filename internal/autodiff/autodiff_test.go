package autodiff

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ecgnet/internal/backend/cpu"
	"github.com/born-ml/ecgnet/internal/tensor"
)

type testBackend = *AutodiffBackend[*cpu.CPUBackend]

func newBackend() testBackend {
	return New(cpu.New())
}

func fromSlice(t *testing.T, b testBackend, data []float32, shape ...int) *tensor.Tensor[testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape(shape), b)
	require.NoError(t, err)
	return x
}

func TestAutodiffBackend_Name(t *testing.T) {
	assert.Equal(t, "Autodiff(CPU)", newBackend().Name())
}

func TestTape_RecordsOnlyWhenRecording(t *testing.T) {
	b := newBackend()
	x := fromSlice(t, b, []float32{1, 2}, 2)

	x.Add(x)
	assert.Equal(t, 0, b.Tape().NumOps())

	b.Tape().StartRecording()
	x.Add(x)
	x.Mul(x)
	assert.Equal(t, 2, b.Tape().NumOps())

	b.Tape().Clear()
	assert.Equal(t, 0, b.Tape().NumOps())
	assert.True(t, b.Tape().IsRecording(), "Clear must keep the recording state")
}

func TestNoGrad_RestoresRecording(t *testing.T) {
	b := newBackend()
	x := fromSlice(t, b, []float32{1, 2}, 2)

	b.Tape().StartRecording()
	NoGrad(b, func() {
		x.Add(x)
		assert.False(t, b.Tape().IsRecording())
	})
	assert.True(t, b.Tape().IsRecording())
	assert.Equal(t, 0, b.Tape().NumOps())

	b.Tape().StopRecording()
	NoGrad(b, func() {})
	assert.False(t, b.Tape().IsRecording(), "NoGrad must not turn recording on")
}

func TestBackward_Square(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromSlice(t, b, []float32{3}, 1)
	y := x.Mul(x)

	grads := Backward(y, b)
	assert.InDelta(t, 6.0, grads[x.Raw()].Data()[0], 1e-6)
}

func TestBackward_AccumulatesSharedInputs(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	// y = relu(x) + x, the shape of a residual connection.
	x := fromSlice(t, b, []float32{-1, 2}, 2)
	y := x.ReLU().Add(x)

	grads := Backward(y, b)
	assert.Equal(t, []float32{1, 2}, grads[x.Raw()].Data())
}

func TestBackward_BroadcastBias(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromSlice(t, b, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	bias := fromSlice(t, b, []float32{0, 0, 0}, 3)
	y := x.Add(bias.Reshape(1, 3))

	grads := Backward(y, b)
	g := grads[bias.Raw()]
	require.NotNil(t, g)
	assert.Equal(t, tensor.Shape{3}, g.Shape())
	assert.Equal(t, []float32{2, 2, 2}, g.Data())
}

func TestBackward_MeanDim(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromSlice(t, b, []float32{1, 2, 3, 4, 5, 6, 7, 8}, 1, 2, 4)
	y := x.MeanDim(2, false)

	grads := Backward(y, b)
	for _, v := range grads[x.Raw()].Data() {
		assert.InDelta(t, 0.25, v, 1e-7)
	}
}

func TestBackward_SeedsRequestedOutput(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromSlice(t, b, []float32{2}, 1)
	y := x.MulScalar(3)
	_ = y.MulScalar(10) // recorded after y, not part of dy/dx

	grads := Backward(y, b)
	assert.InDelta(t, 3.0, grads[x.Raw()].Data()[0], 1e-6)
}

func TestBackward_PanicsWithoutRecording(t *testing.T) {
	b := newBackend()
	x := fromSlice(t, b, []float32{2}, 1)
	assert.Panics(t, func() { Backward(x, b) })
}

func TestBackward_MaxPoolRoutesToWinner(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromSlice(t, b, []float32{1, 3, 2, 5, 4, 0}, 1, 1, 6)
	y := tensor.New(b.MaxPool1D(x.Raw(), 3, 2, 1), b)
	loss := y.SumDim(2, false)

	grads := Backward(loss, b)
	assert.Equal(t, []float32{0, 1, 0, 2, 0, 0}, grads[x.Raw()].Data())
}

// numericGrad perturbs every element of p and returns central differences.
func numericGrad(p *tensor.RawTensor, f func() float64) []float64 {
	const h = 1e-2
	out := make([]float64, p.NumElements())
	data := p.Data()
	for i := range data {
		orig := data[i]
		data[i] = orig + h
		plus := f()
		data[i] = orig - h
		minus := f()
		data[i] = orig
		out[i] = (plus - minus) / (2 * h)
	}
	return out
}

func randomTensor(rng *rand.Rand, b testBackend, scale float32, shape ...int) *tensor.Tensor[testBackend] {
	x := tensor.Randn(tensor.Shape(shape), rng, b)
	for i := range x.Data() {
		x.Data()[i] *= scale
	}
	return x
}

// TestGradientCheck_ConvBlock checks the analytic gradients of a conv, batch
// norm, pooling and linear head ending in BCE against finite differences.
func TestGradientCheck_ConvBlock(t *testing.T) {
	b := newBackend()
	rng := rand.New(rand.NewSource(42))

	x := randomTensor(rng, b, 1, 2, 3, 8)
	kernel := randomTensor(rng, b, 0.5, 4, 3, 3)
	bias := randomTensor(rng, b, 0.1, 4)
	gamma := tensor.Ones(tensor.Shape{4}, b)
	beta := tensor.Zeros(tensor.Shape{4}, b)
	weight := randomTensor(rng, b, 0.5, 2, 4)
	targets := fromSlice(t, b, []float32{1, 0, 0, 1}, 2, 2)

	state := tensor.BatchNormState{
		RunningMean: tensor.MustRaw(tensor.Shape{4}, tensor.CPU),
		RunningVar:  tensor.MustRaw(tensor.Shape{4}, tensor.CPU),
		Momentum:    0.1,
		Eps:         1e-5,
		Training:    true,
	}

	forward := func() *tensor.Tensor[testBackend] {
		h := tensor.New(b.Conv1D(x.Raw(), kernel.Raw(), 2, 1), b)
		h = h.Add(bias.Reshape(1, 4, 1))
		h = tensor.New(b.BatchNorm1D(h.Raw(), gamma.Raw(), beta.Raw(), state), b)
		h = h.Sigmoid()
		pooled := h.MeanDim(2, false) // [2, 4]
		logits := pooled.MatMul(weight.Transpose())
		return tensor.New(b.BCEWithLogits(logits.Raw(), targets.Raw()), b)
	}
	loss := func() float64 {
		var v float64
		NoGrad(b, func() { v = float64(forward().Item()) })
		return v
	}

	b.Tape().StartRecording()
	grads := Backward(forward(), b)
	b.Tape().StopRecording()

	for name, p := range map[string]*tensor.Tensor[testBackend]{
		"input":  x,
		"kernel": kernel,
		"bias":   bias,
		"gamma":  gamma,
		"beta":   beta,
		"weight": weight,
	} {
		g := grads[p.Raw()]
		require.NotNil(t, g, "no gradient for %s", name)
		require.Equal(t, p.Shape(), g.Shape(), "gradient shape for %s", name)
		numeric := numericGrad(p.Raw(), loss)
		for i, want := range numeric {
			assert.InDelta(t, want, g.Data()[i], 5e-3, "%s[%d]", name, i)
		}
	}
}
