// Package dataset supplies batches of 12-lead signals and multi-hot labels.
package dataset

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/born-ml/ecgnet/internal/tensor"
)

// Sample is one recording: Signal is lead-major [leads*length], Labels is a
// multi-hot vector.
type Sample struct {
	Signal []float32
	Labels []float32
}

// Batch pairs signals [N, leads, length] with labels [N, classes].
type Batch struct {
	Signals *tensor.RawTensor
	Labels  *tensor.RawTensor
}

// Size returns the number of samples in the batch.
func (b Batch) Size() int {
	return b.Labels.Shape()[0]
}

// Loader yields the batches of one pass over a dataset.
type Loader interface {
	// Len returns the number of batches per pass.
	Len() int
	// Batches returns the batches of one pass.
	Batches() []Batch
}

// MemoryLoader batches an in-memory sample set. When constructed with a
// non-nil rng, every call to Batches reshuffles the sample order.
type MemoryLoader struct {
	samples   []Sample
	leads     int
	length    int
	classes   int
	batchSize int
	rng       *rand.Rand
}

// NewMemoryLoader validates that all samples share one geometry and returns
// a loader over them. The last batch may be short.
func NewMemoryLoader(samples []Sample, leads, batchSize int, rng *rand.Rand) (*MemoryLoader, error) {
	if len(samples) == 0 {
		return nil, errors.New("dataset: no samples")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("dataset: batch size must be > 0 (got %d)", batchSize)
	}
	if leads <= 0 || len(samples[0].Signal)%leads != 0 {
		return nil, fmt.Errorf("dataset: signal of %d values does not split into %d leads", len(samples[0].Signal), leads)
	}
	signalLen, classes := len(samples[0].Signal), len(samples[0].Labels)
	for i, s := range samples {
		if len(s.Signal) != signalLen || len(s.Labels) != classes {
			return nil, fmt.Errorf("dataset: sample %d has %d signal values and %d labels, want %d and %d",
				i, len(s.Signal), len(s.Labels), signalLen, classes)
		}
	}

	return &MemoryLoader{
		samples:   samples,
		leads:     leads,
		length:    signalLen / leads,
		classes:   classes,
		batchSize: batchSize,
		rng:       rng,
	}, nil
}

// Len returns the number of batches per pass.
func (l *MemoryLoader) Len() int {
	return (len(l.samples) + l.batchSize - 1) / l.batchSize
}

// Batches returns the batches of one pass.
func (l *MemoryLoader) Batches() []Batch {
	order := make([]int, len(l.samples))
	for i := range order {
		order[i] = i
	}
	if l.rng != nil {
		l.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	batches := make([]Batch, 0, l.Len())
	for start := 0; start < len(order); start += l.batchSize {
		end := min(start+l.batchSize, len(order))
		batches = append(batches, l.collate(order[start:end]))
	}
	return batches
}

func (l *MemoryLoader) collate(idx []int) Batch {
	n := len(idx)
	signals := tensor.MustRaw(tensor.Shape{n, l.leads, l.length}, tensor.CPU)
	labels := tensor.MustRaw(tensor.Shape{n, l.classes}, tensor.CPU)

	sig, lab := signals.Data(), labels.Data()
	stride := l.leads * l.length
	for b, i := range idx {
		copy(sig[b*stride:(b+1)*stride], l.samples[i].Signal)
		copy(lab[b*l.classes:(b+1)*l.classes], l.samples[i].Labels)
	}
	return Batch{Signals: signals, Labels: labels}
}

// Split shuffles samples with rng and cuts them into train, validation and
// test sets by fraction.
func Split(samples []Sample, valFrac, testFrac float64, rng *rand.Rand) (train, val, test []Sample, err error) {
	if valFrac < 0 || testFrac < 0 || valFrac+testFrac >= 1 {
		return nil, nil, nil, fmt.Errorf("dataset: invalid split fractions val=%.2f test=%.2f", valFrac, testFrac)
	}

	shuffled := make([]Sample, len(samples))
	copy(shuffled, samples)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	nVal := int(float64(len(samples)) * valFrac)
	nTest := int(float64(len(samples)) * testFrac)
	nTrain := len(samples) - nVal - nTest
	if nTrain <= 0 || (valFrac > 0 && nVal == 0) || (testFrac > 0 && nTest == 0) {
		return nil, nil, nil, fmt.Errorf("dataset: %d samples too few for split val=%.2f test=%.2f", len(samples), valFrac, testFrac)
	}

	return shuffled[:nTrain], shuffled[nTrain : nTrain+nVal], shuffled[nTrain+nVal:], nil
}
