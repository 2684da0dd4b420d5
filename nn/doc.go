// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the trainable parameter type updated by optimizers.
//
// # Basic Usage
//
//	w := nn.NewParameter("w", []float32{3.0})
//	params := []*nn.Parameter{w}
//
//	for range steps {
//	    _ = w.SetGrad([]float32{2 * w.Data()[0]}) // d/dx x²
//	    optimizer.Step(params)
//	    optimizer.ZeroGrad(params)
//	}
package nn
