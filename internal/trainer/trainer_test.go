package trainer

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ecgnet/internal/autodiff"
	"github.com/born-ml/ecgnet/internal/backend/cpu"
	"github.com/born-ml/ecgnet/internal/dataset"
	"github.com/born-ml/ecgnet/internal/metrics"
	"github.com/born-ml/ecgnet/internal/nn"
	"github.com/born-ml/ecgnet/internal/optim"
	"github.com/born-ml/ecgnet/internal/resnet"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func smallNet(rng *rand.Rand, classes int, backend testBackend) *nn.Sequential[testBackend] {
	return nn.NewSequential[testBackend](
		nn.NewConv1D(12, 4, 3, 1, 1, true, rng, backend),
		nn.NewBatchNorm1D(4, backend),
		nn.NewReLU[testBackend](),
		nn.NewGlobalAvgPool1D[testBackend](),
		nn.NewLinear(4, classes, rng, backend),
	)
}

func loaders(t *testing.T, rng *rand.Rand, classes, length int) (train, val *dataset.MemoryLoader) {
	t.Helper()
	samples, err := dataset.Synthetic(dataset.SyntheticConfig{
		Samples: 48, Leads: 12, Length: length, Classes: classes, Noise: 0.2,
	}, rng)
	require.NoError(t, err)

	train, err = dataset.NewMemoryLoader(samples[:32], 12, 8, rng)
	require.NoError(t, err)
	val, err = dataset.NewMemoryLoader(samples[32:], 12, 8, nil)
	require.NoError(t, err)
	return train, val
}

func TestTrain_PrintsReportAndHistory(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(42))
	net := smallNet(rng, 2, backend)
	train, val := loaders(t, rng, 2, 32)

	opt := optim.NewAdam(net.Parameters(), optim.AdamConfig{LR: 0.01})
	var out bytes.Buffer
	history, err := Train[testBackend](net, opt, train, val, backend, Config{Epochs: 2, Threshold: 0.5, Logger: quietLogger()}, &out)
	require.NoError(t, err)

	require.Len(t, history.TrainLoss, 2)
	require.Len(t, history.ValLoss, 2)
	for _, l := range append(history.TrainLoss, history.ValLoss...) {
		assert.False(t, math.IsNaN(l))
		assert.Greater(t, l, 0.0)
	}

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Epoch 1/2:\n"))
	assert.Contains(t, text, "Epoch 2/2:\n")
	assert.Equal(t, 2, strings.Count(text, "Validation metrics:\n"))
	assert.Equal(t, 4, strings.Count(text, "\t\tTP\tFP\tTN\tFN\n"), "one block per label per epoch")
	assert.Contains(t, text, "Weighted averaging with w_k=1:")
	assert.Contains(t, text, "train Loss: ")
	assert.Contains(t, text, "\nval Loss: ")

	assert.Zero(t, backend.Tape().NumOps(), "tape is cleared after every step")
	assert.False(t, backend.Tape().IsRecording())
}

func TestTrain_UpdatesParameters(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(1))
	net := smallNet(rng, 2, backend)
	train, val := loaders(t, rng, 2, 16)

	before := append([]float32(nil), net.Parameters()[0].Tensor().Data()...)
	opt := optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: 0.1})
	_, err := Train[testBackend](net, opt, train, val, backend, Config{Epochs: 1, Threshold: 0.5, Logger: quietLogger()}, io.Discard)
	require.NoError(t, err)

	assert.NotEqual(t, before, net.Parameters()[0].Tensor().Data())
}

func TestEvaluate(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(3))
	net := smallNet(rng, 3, backend)
	_, test := loaders(t, rng, 3, 16)

	var out bytes.Buffer
	loss, err := Evaluate[testBackend](net, test, backend, 0.5, &out)
	require.NoError(t, err)
	assert.Greater(t, loss, 0.0)

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Test metrics:\n"))
	assert.True(t, strings.HasSuffix(text, "test Loss: "+formatLoss(loss)+"\n"))
	assert.Zero(t, backend.Tape().NumOps(), "evaluation records nothing")

	// A second pass in eval mode is deterministic.
	var again bytes.Buffer
	_, err = Evaluate[testBackend](net, test, backend, 0.5, &again)
	require.NoError(t, err)
	assert.Equal(t, text, again.String())
}

func TestEvaluate_SingleClassColumnFails(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(4))
	net := smallNet(rng, 2, backend)

	samples := make([]dataset.Sample, 4)
	for i := range samples {
		samples[i] = dataset.Sample{Signal: make([]float32, 12*16), Labels: []float32{0, float32(i % 2)}}
	}
	test, err := dataset.NewMemoryLoader(samples, 12, 2, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = Evaluate[testBackend](net, test, backend, 0.5, &out)
	assert.ErrorIs(t, err, metrics.ErrUndefinedROCAUC)
	assert.Contains(t, out.String(), "ROC AUC: nan")
	assert.NotContains(t, out.String(), "test Loss")
}

func TestTrain_EmptyLoader(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(5))
	net := smallNet(rng, 2, backend)
	_, val := loaders(t, rng, 2, 16)

	_, err := Train[testBackend](net, optim.NewSGD(net.Parameters(), optim.SGDConfig{}), emptyLoader{}, val, backend, Config{Epochs: 1}, io.Discard)
	assert.ErrorIs(t, err, ErrEmptyLoader)
}

func TestTrain_ResNetSmoke(t *testing.T) {
	if testing.Short() {
		t.Skip("ResNet training step skipped in short mode")
	}
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(42))
	net := resnet.New([]int{1, 1, 1, 1}, 2, rng, backend)
	train, val := loaders(t, rng, 2, 64)

	opt := optim.NewAdam(net.Parameters(), optim.AdamConfig{})
	history, err := Train[testBackend](net, opt, train, val, backend, Config{Epochs: 1, Threshold: 0.5, Logger: quietLogger()}, io.Discard)
	require.NoError(t, err)
	assert.Len(t, history.TrainLoss, 1)
}

type emptyLoader struct{}

func (emptyLoader) Len() int { return 0 }

func (emptyLoader) Batches() []dataset.Batch { return nil }

func formatLoss(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
