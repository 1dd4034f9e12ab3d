// Package seed derives every random stream of a run from a single seed.
package seed

import "math/rand"

// DefaultSeed is used when no seed is configured.
const DefaultSeed int64 = 42

// Streams are independent random sources for the parts of a run that draw
// random numbers. Consuming one never shifts another.
type Streams struct {
	Init    *rand.Rand // weight initialization
	Shuffle *rand.Rand // per-epoch batch order
	Data    *rand.Rand // synthetic data and splits
}

// Everything builds all streams from seed. It is called once by the entry
// point; identical seeds yield identical streams.
func Everything(seed int64) Streams {
	root := rand.New(rand.NewSource(seed))
	next := func() *rand.Rand { return rand.New(rand.NewSource(root.Int63())) }
	return Streams{
		Init:    next(),
		Shuffle: next(),
		Data:    next(),
	}
}
