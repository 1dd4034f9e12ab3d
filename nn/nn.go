// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/ecgnet/internal/nn"
	"github.com/born-ml/ecgnet/internal/resnet"
	"github.com/born-ml/ecgnet/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Trainable is implemented by modules that behave differently in training
// and evaluation mode.
type Trainable = nn.Trainable

// SetTraining switches m between training and evaluation mode.
func SetTraining[B tensor.Backend](m Module[B], training bool) {
	nn.SetTraining(m, training)
}

// Parameter represents a trainable parameter in a neural network.
//
// Note: Parameter is implemented as a type alias because it is used as a return type
// in the Module interface. Go's type system requires exact type matches for interface
// implementations, so we cannot use an interface here.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// NumParameters counts the scalar values held by params.
func NumParameters[B tensor.Backend](params []*Parameter[B]) int {
	return nn.NumParameters(params)
}

// Layers

// Conv1D represents a 1D convolutional layer.
type Conv1D[B tensor.Backend] = nn.Conv1D[B]

// NewConv1D creates a new 1D convolutional layer with Kaiming-normal weights.
//
// Example:
//
//	conv := nn.NewConv1D(12, 64, 15, 2, 7, false, rng, backend) // in=12, out=64, kernel=15, stride=2, padding=7
func NewConv1D[B tensor.Backend](
	inChannels, outChannels int,
	kernelSize, stride, padding int,
	useBias bool,
	rng *rand.Rand,
	backend B,
) *Conv1D[B] {
	return nn.NewConv1D(inChannels, outChannels, kernelSize, stride, padding, useBias, rng, backend)
}

// BatchNorm1D represents per-channel batch normalization.
type BatchNorm1D[B tensor.Backend] = nn.BatchNorm1D[B]

// NewBatchNorm1D creates a batch norm layer with γ=1 and β=0.
func NewBatchNorm1D[B tensor.Backend](numFeatures int, backend B) *BatchNorm1D[B] {
	return nn.NewBatchNorm1D(numFeatures, backend)
}

// MaxPool1D represents a 1D max pooling layer.
type MaxPool1D[B tensor.Backend] = nn.MaxPool1D[B]

// NewMaxPool1D creates a new 1D max pooling layer.
//
// Example:
//
//	pool := nn.NewMaxPool1D(3, 2, 1, backend) // kernel=3, stride=2, padding=1
func NewMaxPool1D[B tensor.Backend](kernelSize, stride, padding int, backend B) *MaxPool1D[B] {
	return nn.NewMaxPool1D(kernelSize, stride, padding, backend)
}

// GlobalAvgPool1D averages [N, C, L] over L.
type GlobalAvgPool1D[B tensor.Backend] = nn.GlobalAvgPool1D[B]

// NewGlobalAvgPool1D creates a global average pooling layer.
func NewGlobalAvgPool1D[B tensor.Backend]() *GlobalAvgPool1D[B] {
	return nn.NewGlobalAvgPool1D[B]()
}

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with U(±1/√in) initialization.
//
// Example:
//
//	head := nn.NewLinear(2048, 5, rng, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, rng, backend)
}

// Sequential is a container module that chains multiple modules together.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid maps logits to per-label probabilities.
func Sigmoid[B tensor.Backend](logits *tensor.Tensor[B]) *tensor.Tensor[B] {
	return nn.Sigmoid(logits)
}

// Loss functions

// BCEWithLogitsLoss is the multi-label binary cross-entropy on logits.
type BCEWithLogitsLoss[B tensor.Backend] = nn.BCEWithLogitsLoss[B]

// NewBCEWithLogitsLoss creates the loss.
//
// Example:
//
//	criterion := nn.NewBCEWithLogitsLoss(backend)
//	loss := criterion.Forward(logits, labels)
func NewBCEWithLogitsLoss[B tensor.Backend](backend B) *BCEWithLogitsLoss[B] {
	return nn.NewBCEWithLogitsLoss(backend)
}

// Models

// ResNet50Layers is the block count per stage of the 50-layer variant.
var ResNet50Layers = resnet.ResNet50Layers

// Bottleneck is the 1x1 -> k3 -> 1x1 residual block with 4x expansion.
type Bottleneck[B tensor.Backend] = resnet.Bottleneck[B]

// NewBottleneck creates a bottleneck block producing planes*4 channels.
func NewBottleneck[B tensor.Backend](inplanes, planes, stride int, rng *rand.Rand, backend B) *Bottleneck[B] {
	return resnet.NewBottleneck(inplanes, planes, stride, rng, backend)
}

// ResNet1D is the 12-lead bottleneck backbone with a linear head.
type ResNet1D[B tensor.Backend] = resnet.ResNet1D[B]

// NewResNet1D builds the backbone with layers[i] blocks in stage i.
//
// Example:
//
//	model := nn.NewResNet1D(nn.ResNet50Layers, 5, rng, backend)
func NewResNet1D[B tensor.Backend](layers []int, numClasses int, rng *rand.Rand, backend B) *ResNet1D[B] {
	return resnet.New(layers, numClasses, rng, backend)
}
