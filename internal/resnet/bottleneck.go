// Package resnet builds the 1-D bottleneck residual network used to classify
// 12-lead ECG signals.
package resnet

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/ecgnet/internal/nn"
	"github.com/born-ml/ecgnet/internal/tensor"
)

// Expansion is the ratio between a bottleneck block's output channels and
// its inner width.
const Expansion = 4

// Bottleneck is a residual unit: 1x1 reduce, 3-tap spatial convolution
// (optionally strided), 1x1 expand, each followed by batch norm and ReLU.
// The input, projected when its shape differs from the output, is added
// before the final ReLU.
//
// Input:  [N, inplanes, L]
// Output: [N, planes*Expansion, (L-1)/stride + 1]
type Bottleneck[B tensor.Backend] struct {
	conv1 *nn.Conv1D[B]
	bn1   *nn.BatchNorm1D[B]
	conv2 *nn.Conv1D[B]
	bn2   *nn.BatchNorm1D[B]
	conv3 *nn.Conv1D[B]
	bn3   *nn.BatchNorm1D[B]

	downsample *nn.Sequential[B] // nil when the identity already matches
	stride     int
}

// NewBottleneck creates a bottleneck block. A projection shortcut
// (1x1 convolution with the block's stride, no bias, then batch norm) is
// built when stride != 1 or inplanes != planes*Expansion.
func NewBottleneck[B tensor.Backend](inplanes, planes, stride int, rng *rand.Rand, backend B) *Bottleneck[B] {
	if inplanes <= 0 || planes <= 0 || stride <= 0 {
		panic(fmt.Sprintf("bottleneck: invalid inplanes=%d planes=%d stride=%d", inplanes, planes, stride))
	}
	outplanes := planes * Expansion

	b := &Bottleneck[B]{
		conv1:  nn.NewConv1D(inplanes, planes, 1, 1, 0, true, rng, backend),
		bn1:    nn.NewBatchNorm1D(planes, backend),
		conv2:  nn.NewConv1D(planes, planes, 3, stride, 1, true, rng, backend),
		bn2:    nn.NewBatchNorm1D(planes, backend),
		conv3:  nn.NewConv1D(planes, outplanes, 1, 1, 0, true, rng, backend),
		bn3:    nn.NewBatchNorm1D(outplanes, backend),
		stride: stride,
	}
	if stride != 1 || inplanes != outplanes {
		b.downsample = nn.NewSequential[B](
			nn.NewConv1D(inplanes, outplanes, 1, stride, 0, false, rng, backend),
			nn.NewBatchNorm1D(outplanes, backend),
		)
	}
	return b
}

// Forward runs the block.
func (b *Bottleneck[B]) Forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	identity := x
	if b.downsample != nil {
		identity = b.downsample.Forward(x)
	}

	out := b.bn1.Forward(b.conv1.Forward(x)).ReLU()
	out = b.bn2.Forward(b.conv2.Forward(out)).ReLU()
	out = b.bn3.Forward(b.conv3.Forward(out)).ReLU()

	return out.Add(identity).ReLU()
}

// Parameters returns every trainable parameter of the block.
func (b *Bottleneck[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, m := range b.modules() {
		params = append(params, m.Parameters()...)
	}
	return params
}

// SetTraining switches every batch norm in the block.
func (b *Bottleneck[B]) SetTraining(training bool) {
	for _, m := range b.modules() {
		nn.SetTraining(m, training)
	}
}

// HasProjection reports whether the shortcut is projected.
func (b *Bottleneck[B]) HasProjection() bool {
	return b.downsample != nil
}

func (b *Bottleneck[B]) modules() []nn.Module[B] {
	ms := []nn.Module[B]{b.conv1, b.bn1, b.conv2, b.bn2, b.conv3, b.bn3}
	if b.downsample != nil {
		ms = append(ms, b.downsample)
	}
	return ms
}
