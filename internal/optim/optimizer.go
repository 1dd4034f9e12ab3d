// Package optim implements optimization algorithms for training the network.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - SGD: stochastic gradient descent with momentum and weight decay
//   - Adam: adaptive moment estimation
//
// Example usage:
//
//	optimizer := optim.NewAdam(net.Parameters(), optim.AdamConfig{LR: 1e-3})
//
//	backend.Tape().StartRecording()
//	loss := criterion.Forward(net.Forward(signals), labels)
//	grads := autodiff.Backward(loss, backend)
//	optimizer.Step(grads)
//	optimizer.ZeroGrad()
//	backend.Tape().Clear()
package optim

import (
	"fmt"
	"strings"

	"github.com/born-ml/ecgnet/internal/nn"
	"github.com/born-ml/ecgnet/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters in place.
	//
	// Takes the gradient map returned by autodiff.Backward. Parameters
	// missing from the map did not take part in the forward pass and are
	// left untouched.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Config selects and parameterizes an optimizer by name.
type Config struct {
	Name        string  // "adam" or "sgd"
	LR          float32 // learning rate
	Momentum    float32 // SGD only
	WeightDecay float32 // L2 penalty added to the gradient
}

// New builds the optimizer named in cfg.
func New[B tensor.Backend](params []*nn.Parameter[B], cfg Config) (Optimizer, error) {
	switch strings.ToLower(cfg.Name) {
	case "adam", "":
		return NewAdam(params, AdamConfig{LR: cfg.LR, WeightDecay: cfg.WeightDecay}), nil
	case "sgd":
		return NewSGD(params, SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum, WeightDecay: cfg.WeightDecay}), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q (want adam or sgd)", cfg.Name)
	}
}

// getGradient retrieves the gradient for a parameter, or nil if the
// parameter was not part of the computation graph.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) []float32 {
	if param == nil {
		return nil
	}
	g, ok := grads[param.Tensor().Raw()]
	if !ok {
		return nil
	}
	return g.Data()
}

func zeroGrads[B tensor.Backend](params []*nn.Parameter[B]) {
	for _, param := range params {
		param.ZeroGrad()
	}
}
