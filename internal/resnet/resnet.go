package resnet

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/ecgnet/internal/nn"
	"github.com/born-ml/ecgnet/internal/tensor"
)

// Fixed topology of the backbone.
const (
	InputChannels = 12 // ECG leads
	StemChannels  = 64
	StemKernel    = 15
)

// ResNet50Layers is the block count per stage of the 50-layer variant.
var ResNet50Layers = []int{3, 4, 6, 3}

// stageWidths and stageStrides describe the four stages.
var (
	stageWidths  = [4]int{64, 128, 256, 512}
	stageStrides = [4]int{1, 2, 2, 2}
)

// ResNet1D is the bottleneck backbone with a linear classifier head.
//
// Layout:
//
//	conv(12->64, k=15, s=2, p=7) -> BN -> ReLU -> MaxPool(k=3, s=2, p=1)
//	stage1..stage4 of Bottleneck blocks (widths 64/128/256/512, strides 1/2/2/2)
//	global average pool -> Linear(2048 -> numClasses)
//
// Forward returns per-label logits [N, numClasses]; apply a sigmoid for
// probabilities.
type ResNet1D[B tensor.Backend] struct {
	stem   *nn.Sequential[B]
	stages []*nn.Sequential[B]
	pool   *nn.GlobalAvgPool1D[B]
	fc     *nn.Linear[B]

	numClasses int
}

// New builds the backbone with layers[i] bottleneck blocks in stage i.
// Every random draw comes from rng, so a seeded rng gives identical weights.
//
// Example:
//
//	net := resnet.New(resnet.ResNet50Layers, 5, streams.Init, backend)
//	logits := net.Forward(signals) // [N, 5]
func New[B tensor.Backend](layers []int, numClasses int, rng *rand.Rand, backend B) *ResNet1D[B] {
	if len(layers) != len(stageWidths) {
		panic(fmt.Sprintf("resnet: expected %d stage block counts, got %d", len(stageWidths), len(layers)))
	}
	if numClasses <= 0 {
		panic(fmt.Sprintf("resnet: invalid number of classes %d", numClasses))
	}

	net := &ResNet1D[B]{
		stem: nn.NewSequential[B](
			nn.NewConv1D(InputChannels, StemChannels, StemKernel, 2, StemKernel/2, false, rng, backend),
			nn.NewBatchNorm1D(StemChannels, backend),
			nn.NewReLU[B](),
			nn.NewMaxPool1D(3, 2, 1, backend),
		),
		pool:       nn.NewGlobalAvgPool1D[B](),
		numClasses: numClasses,
	}

	inplanes := StemChannels
	for i, blocks := range layers {
		if blocks <= 0 {
			panic(fmt.Sprintf("resnet: stage %d needs at least one block, got %d", i+1, blocks))
		}
		stage := nn.NewSequential[B]()
		for j := 0; j < blocks; j++ {
			stride := 1
			if j == 0 {
				stride = stageStrides[i]
			}
			stage.Add(NewBottleneck(inplanes, stageWidths[i], stride, rng, backend))
			inplanes = stageWidths[i] * Expansion
		}
		net.stages = append(net.stages, stage)
	}

	net.fc = nn.NewLinear(inplanes, numClasses, rng, backend)
	return net
}

// Forward maps [N, 12, L] signals to [N, numClasses] logits.
func (r *ResNet1D[B]) Forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := x.Shape()
	if len(shape) != 3 || shape[1] != InputChannels {
		panic(fmt.Sprintf("resnet: expected [N,%d,L] input, got %v", InputChannels, shape))
	}

	out := r.stem.Forward(x)
	for _, stage := range r.stages {
		out = stage.Forward(out)
	}
	return r.fc.Forward(r.pool.Forward(out))
}

// Parameters returns every trainable parameter, stem first and head last.
func (r *ResNet1D[B]) Parameters() []*nn.Parameter[B] {
	params := r.stem.Parameters()
	for _, stage := range r.stages {
		params = append(params, stage.Parameters()...)
	}
	return append(params, r.fc.Parameters()...)
}

// SetTraining switches every batch norm between batch and running statistics.
func (r *ResNet1D[B]) SetTraining(training bool) {
	r.stem.SetTraining(training)
	for _, stage := range r.stages {
		stage.SetTraining(training)
	}
}

// NumClasses returns the width of the classifier head.
func (r *ResNet1D[B]) NumClasses() int {
	return r.numClasses
}

// Stage returns the i-th stage (0-based).
func (r *ResNet1D[B]) Stage(i int) *nn.Sequential[B] {
	return r.stages[i]
}
