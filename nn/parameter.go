// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/hparams/internal/nn"
)

// Parameter represents a trainable parameter.
//
// A parameter is a named float32 vector with an optional gradient of the
// same length. Optimizers update the values in place.
//
// Example:
//
//	// Create a weight parameter
//	weight := nn.NewParameter("linear1.weight", []float32{0.1, -0.3, 0.7})
//
//	// Attach a gradient computed elsewhere
//	if err := weight.SetGrad(grad); err != nil {
//	    return err
//	}
//
// Methods:
//
//	Name() string
//	    Returns the parameter name (e.g., "weight", "bias").
//
//	Data() []float32
//	    Returns the parameter values.
//
//	Grad() []float32
//	    Returns the gradient (nil if not set).
//
//	SetGrad(grad []float32) error
//	    Sets the gradient; fails on a length mismatch.
//
//	ZeroGrad()
//	    Clears the gradient.
type Parameter = nn.Parameter

// NewParameter creates a new parameter backed by data.
func NewParameter(name string, data []float32) *Parameter {
	return nn.NewParameter(name, data)
}
