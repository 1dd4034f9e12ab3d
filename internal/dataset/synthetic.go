package dataset

import (
	"fmt"
	"math"
	"math/rand"
)

// SyntheticConfig parameterizes the synthetic recording generator.
type SyntheticConfig struct {
	Samples    int
	Leads      int
	Length     int
	Classes    int
	SampleRate float64 // Hz
	Noise      float64 // std of additive Gaussian noise
}

// Synthetic generates labelled multi-lead recordings. Every label is present
// in a sample with probability one half; a present label k adds a sinusoid at
// (k+1)*2 Hz with a lead-dependent phase on top of Gaussian noise.
func Synthetic(cfg SyntheticConfig, rng *rand.Rand) ([]Sample, error) {
	if cfg.Samples <= 0 || cfg.Leads <= 0 || cfg.Length <= 0 || cfg.Classes <= 0 {
		return nil, fmt.Errorf("dataset: invalid synthetic config %+v", cfg)
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 500
	}

	samples := make([]Sample, cfg.Samples)
	for i := range samples {
		labels := make([]float32, cfg.Classes)
		for k := range labels {
			if rng.Float64() < 0.5 {
				labels[k] = 1
			}
		}

		signal := make([]float32, cfg.Leads*cfg.Length)
		for lead := 0; lead < cfg.Leads; lead++ {
			phase := 2 * math.Pi * float64(lead) / float64(cfg.Leads)
			row := signal[lead*cfg.Length : (lead+1)*cfg.Length]
			for t := range row {
				v := cfg.Noise * rng.NormFloat64()
				sec := float64(t) / cfg.SampleRate
				for k, y := range labels {
					if y != 0 {
						v += math.Sin(2*math.Pi*float64(2*(k+1))*sec + phase)
					}
				}
				row[t] = float32(v)
			}
		}
		samples[i] = Sample{Signal: signal, Labels: labels}
	}
	return samples, nil
}
