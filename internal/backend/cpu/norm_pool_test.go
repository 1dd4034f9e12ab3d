package cpu

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/ecgnet/internal/tensor"
)

func TestMaxPool1D(t *testing.T) {
	backend := New()

	input := raw(t, []float32{1, 3, 2, 5, 4, 0}, 1, 1, 6)
	out := backend.MaxPool1D(input, 3, 2, 1)
	assert.Equal(t, tensor.Shape{1, 1, 3}, out.Shape())
	assert.Equal(t, []float32{3, 5, 5}, out.Data())

	grad := raw(t, []float32{1, 1, 1}, 1, 1, 3)
	dx := backend.MaxPool1DBackward(input, grad, 3, 2, 1)
	assert.Equal(t, []float32{0, 1, 0, 2, 0, 0}, dx.Data())
}

func TestMaxPool1D_PaddingNeverWins(t *testing.T) {
	backend := New()

	input := raw(t, []float32{-1, -2, -3}, 1, 1, 3)
	out := backend.MaxPool1D(input, 3, 2, 1)
	assert.Equal(t, []float32{-1, -2}, out.Data())
}

func TestMaxPool1D_InvalidPanics(t *testing.T) {
	backend := New()
	assert.Panics(t, func() { backend.MaxPool1D(tensor.MustRaw(tensor.Shape{4, 8}, tensor.CPU), 3, 2, 1) })
	assert.Panics(t, func() { backend.MaxPool1D(tensor.MustRaw(tensor.Shape{1, 1, 8}, tensor.CPU), 3, 2, 2) })
}

func newBNState(channels int, training bool) tensor.BatchNormState {
	rm := tensor.MustRaw(tensor.Shape{channels}, tensor.CPU)
	rv := tensor.MustRaw(tensor.Shape{channels}, tensor.CPU)
	rv.Fill(1)
	return tensor.BatchNormState{RunningMean: rm, RunningVar: rv, Momentum: 0.1, Eps: 0, Training: training}
}

func TestBatchNorm1D_Training(t *testing.T) {
	backend := New()

	input := raw(t, []float32{1, 2, 3, 4}, 2, 1, 2)
	gamma := raw(t, []float32{1}, 1)
	beta := raw(t, []float32{0}, 1)
	state := newBNState(1, true)

	out := backend.BatchNorm1D(input, gamma, beta, state)

	std := math.Sqrt(1.25)
	for i, x := range []float64{1, 2, 3, 4} {
		assert.InDelta(t, (x-2.5)/std, out.Data()[i], 1e-6)
	}
	assert.InDelta(t, 0.25, state.RunningMean.Data()[0], 1e-6)
	assert.InDelta(t, 0.9+0.1*(1.25*4/3), state.RunningVar.Data()[0], 1e-6)
}

func TestBatchNorm1D_EvalUsesRunningStats(t *testing.T) {
	backend := New()

	input := raw(t, []float32{1, 2, 3, 4}, 2, 1, 2)
	gamma := raw(t, []float32{2}, 1)
	beta := raw(t, []float32{1}, 1)
	state := newBNState(1, false)

	out := backend.BatchNorm1D(input, gamma, beta, state)
	assert.Equal(t, []float32{3, 5, 7, 9}, out.Data())
	assert.Equal(t, []float32{0}, state.RunningMean.Data(), "eval mode must not touch running stats")
	assert.Equal(t, []float32{1}, state.RunningVar.Data())
}

// TestBatchNorm1D_BackwardFiniteDifference checks the training-mode gradient
// of loss = sum(BN(x) * w) against central differences.
func TestBatchNorm1D_BackwardFiniteDifference(t *testing.T) {
	backend := New()
	rng := rand.New(rand.NewSource(11))

	x := randomRaw(rng, 3, 2, 4)
	gamma := raw(t, []float32{1.5, -0.5}, 2)
	beta := raw(t, []float32{0.2, 0.1}, 2)
	w := randomRaw(rng, 3, 2, 4)

	loss := func(in *tensor.RawTensor) float64 {
		state := newBNState(2, true)
		state.Eps = 1e-5
		return dot(backend.BatchNorm1D(in, gamma, beta, state).Data(), w.Data())
	}

	state := newBNState(2, true)
	state.Eps = 1e-5
	dx, dgamma, dbeta := backend.BatchNorm1DBackward(x, gamma, w, state)

	const h = 1e-2
	for i := range x.Data() {
		plus, minus := x.Clone(), x.Clone()
		plus.Data()[i] += h
		minus.Data()[i] -= h
		numeric := (loss(plus) - loss(minus)) / (2 * h)
		assert.InDelta(t, numeric, dx.Data()[i], 1e-2, "dx[%d]", i)
	}

	// dbeta is the per-channel sum of the upstream gradient.
	for c := 0; c < 2; c++ {
		var sum float64
		for n := 0; n < 3; n++ {
			for l := 0; l < 4; l++ {
				sum += float64(w.Data()[(n*2+c)*4+l])
			}
		}
		assert.InDelta(t, sum, dbeta.Data()[c], 1e-5)
	}
	assert.Equal(t, tensor.Shape{2}, dgamma.Shape())
}
