package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/ecgnet/internal/parallel"
	"github.com/born-ml/ecgnet/internal/tensor"
)

// bnLayout views a [N, C, L] (or [N, C]) tensor as channel planes.
func bnLayout(shape tensor.Shape) (batch, channels, length int) {
	switch len(shape) {
	case 2:
		return shape[0], shape[1], 1
	case 3:
		return shape[0], shape[1], shape[2]
	default:
		panic(fmt.Sprintf("batchnorm1d: expected [N,C] or [N,C,L] input, got %v", shape))
	}
}

// channelStats returns the mean and biased variance of channel c.
func channelStats(x []float32, c, batch, channels, length int) (mean, variance float64) {
	m := float64(batch * length)
	var sum float64
	for n := 0; n < batch; n++ {
		off := (n*channels + c) * length
		for _, v := range x[off : off+length] {
			sum += float64(v)
		}
	}
	mean = sum / m

	var sq float64
	for n := 0; n < batch; n++ {
		off := (n*channels + c) * length
		for _, v := range x[off : off+length] {
			d := float64(v) - mean
			sq += d * d
		}
	}
	return mean, sq / m
}

// BatchNorm1D normalizes each channel over the batch and length axes.
//
// In training mode the batch mean and biased variance normalize the input,
// and the running statistics are updated in place with the unbiased variance:
//
//	running = (1 - momentum)*running + momentum*batchStat
//
// In evaluation mode the running statistics are used unchanged.
func (cpu *CPUBackend) BatchNorm1D(input, gamma, beta *tensor.RawTensor, state tensor.BatchNormState) *tensor.RawTensor {
	batch, channels, length := bnLayout(input.Shape())
	result := tensor.MustRaw(input.Shape(), cpu.device)

	x, out := input.Data(), result.Data()
	gm, bt := gamma.Data(), beta.Data()
	rm, rv := state.RunningMean.Data(), state.RunningVar.Data()
	m := batch * length
	momentum := float64(state.Momentum)

	parallel.For(channels, func(c int) {
		var mean, variance float64
		if state.Training {
			mean, variance = channelStats(x, c, batch, channels, length)
			unbiased := variance
			if m > 1 {
				unbiased = variance * float64(m) / float64(m-1)
			}
			rm[c] = float32((1-momentum)*float64(rm[c]) + momentum*mean)
			rv[c] = float32((1-momentum)*float64(rv[c]) + momentum*unbiased)
		} else {
			mean, variance = float64(rm[c]), float64(rv[c])
		}

		invStd := 1 / math.Sqrt(variance+float64(state.Eps))
		scale := float64(gm[c]) * invStd
		shift := float64(bt[c]) - mean*scale
		for n := 0; n < batch; n++ {
			off := (n*channels + c) * length
			for i, v := range x[off : off+length] {
				out[off+i] = float32(float64(v)*scale + shift)
			}
		}
	}, cpu.par)

	return result
}

// BatchNorm1DBackward returns the gradients with respect to the input, gamma
// and beta. It must see the same state as the forward call; running
// statistics are not modified.
func (cpu *CPUBackend) BatchNorm1DBackward(
	input, gamma, grad *tensor.RawTensor, state tensor.BatchNormState,
) (inputGrad, gammaGrad, betaGrad *tensor.RawTensor) {
	batch, channels, length := bnLayout(input.Shape())
	inputGrad = tensor.MustRaw(input.Shape(), cpu.device)
	gammaGrad = tensor.MustRaw(gamma.Shape(), cpu.device)
	betaGrad = tensor.MustRaw(gamma.Shape(), cpu.device)

	x, dy, dx := input.Data(), grad.Data(), inputGrad.Data()
	gm, dg, db := gamma.Data(), gammaGrad.Data(), betaGrad.Data()
	rm, rv := state.RunningMean.Data(), state.RunningVar.Data()
	m := float64(batch * length)

	parallel.For(channels, func(c int) {
		var mean, variance float64
		if state.Training {
			mean, variance = channelStats(x, c, batch, channels, length)
		} else {
			mean, variance = float64(rm[c]), float64(rv[c])
		}
		invStd := 1 / math.Sqrt(variance+float64(state.Eps))

		var sumDy, sumDyXhat float64
		for n := 0; n < batch; n++ {
			off := (n*channels + c) * length
			for i := off; i < off+length; i++ {
				g := float64(dy[i])
				sumDy += g
				sumDyXhat += g * (float64(x[i]) - mean) * invStd
			}
		}
		db[c] = float32(sumDy)
		dg[c] = float32(sumDyXhat)

		k := float64(gm[c]) * invStd
		for n := 0; n < batch; n++ {
			off := (n*channels + c) * length
			for i := off; i < off+length; i++ {
				g := float64(dy[i])
				if !state.Training {
					dx[i] = float32(k * g)
					continue
				}
				xhat := (float64(x[i]) - mean) * invStd
				dx[i] = float32(k * (g - sumDy/m - xhat*sumDyXhat/m))
			}
		}
	}, cpu.par)

	return inputGrad, gammaGrad, betaGrad
}
