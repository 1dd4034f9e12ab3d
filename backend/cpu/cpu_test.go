// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu_test

import (
	"math/rand"
	"testing"

	"github.com/born-ml/ecgnet/backend/cpu"
	"github.com/born-ml/ecgnet/tensor"
)

// TestWorkerCountInvariance checks that a convolution gives identical results
// on one and many workers.
func TestWorkerCountInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	serial, wide := cpu.NewWithWorkers(1), cpu.NewWithWorkers(8)

	input := tensor.Randn(tensor.Shape{6, 12, 50}, rng, serial)
	kernel := tensor.Randn(tensor.Shape{16, 12, 7}, rng, serial)

	a := serial.Conv1D(input.Raw(), kernel.Raw(), 2, 3).Data()
	b := wide.Conv1D(input.Raw(), kernel.Raw(), 2, 3).Data()
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("element %d differs: %v vs %v", i, a[i], b[i])
		}
	}

	if name := cpu.New().Name(); name != "CPU" {
		t.Errorf("Name() = %q, want CPU", name)
	}
}
