// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/born-ml/ecgnet/internal/backend/cpu"
	"github.com/born-ml/ecgnet/tensor"
)

// TestBackendInterface verifies that cpu.CPUBackend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.CPUBackend)(nil)
}

// TestRawTensorAPI verifies RawTensor type alias exposes expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", raw.Shape())
	}
	if raw.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", raw.Device())
	}
	if n := raw.NumElements(); n != 6 {
		t.Errorf("NumElements() = %d, want 6", n)
	}

	clone := raw.Clone()
	clone.Data()[0] = 1
	if raw.Data()[0] != 0 {
		t.Error("Clone() shares storage with the original")
	}

	if _, err := tensor.NewRaw(tensor.Shape{2, 0}, tensor.CPU); err == nil {
		t.Error("NewRaw accepted a zero dimension")
	}
}

// TestCreation verifies the creation helpers.
func TestCreation(t *testing.T) {
	backend := cpu.New()

	zeros := tensor.Zeros(tensor.Shape{2, 2}, backend)
	ones := tensor.Ones(tensor.Shape{2, 2}, backend)
	full := tensor.Full(tensor.Shape{2, 2}, 2.5, backend)

	sum := zeros.Add(ones).Add(full)
	for i, v := range sum.Data() {
		if v != 3.5 {
			t.Errorf("sum[%d] = %v, want 3.5", i, v)
		}
	}

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if got := x.At(1, 2); got != 6 {
		t.Errorf("At(1, 2) = %v, want 6", got)
	}
	if _, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 2}, backend); err == nil {
		t.Error("FromSlice accepted mismatched data length")
	}

	a := tensor.Randn(tensor.Shape{4}, rand.New(rand.NewSource(9)), backend)
	b := tensor.Randn(tensor.Shape{4}, rand.New(rand.NewSource(9)), backend)
	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatal("Randn with equal seeds differs")
		}
	}

	wrapped := tensor.New(x.Raw(), backend)
	if wrapped.Raw() != x.Raw() {
		t.Error("New does not wrap the given RawTensor")
	}
}
