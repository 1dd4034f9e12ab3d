// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/ecgnet/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape and device information via Shape(), Device()
//   - Direct float32 access via Data()
//   - Deep copies via Clone()
//
// Gradients returned by autodiff.Backward are keyed by *RawTensor. Most
// users should use the high-level Tensor[B] type instead.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.CPU)
//	data := raw.Data()
//	clone := raw.Clone()
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-filled raw tensor with the given shape and device.
//
// This is a low-level function. Most users should use high-level creation
// functions instead.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, device)
}
