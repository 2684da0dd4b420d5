// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training models.
//
// # Overview
//
// This package contains:
//   - SGD: Gradient descent with optional (Nesterov) momentum
//   - Adam / AdamW: Adaptive Moment Estimation with bias correction
//   - Adagrad, RMSProp, Adadelta: per-element adaptive learning rates
//   - Optimizer interface for custom optimizers
//
// Optimizers are usually built from a YAML document with package hparams;
// the constructors here are the programmatic equivalent.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/hparams/nn"
//	    "github.com/born-ml/hparams/optim"
//	)
//
//	func main() {
//	    optimizer, err := optim.NewAdam(optim.DefaultAdamConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    params := model.Parameters()
//	    for epoch := range 10 {
//	        computeGradients(params)
//	        optimizer.Step(params)
//	        optimizer.ZeroGrad(params)
//	    }
//	}
//
// # Optimizers
//
// SGD (Stochastic Gradient Descent):
//
//	optimizer, err := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
//
// Adam (Adaptive Moment Estimation):
//
//	optimizer, err := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float32{0.9, 0.999},
//	    Eps:   1e-8,
//	})
//
// # Checkpointing
//
// Stateful optimizers export their slots with StateDict and restore them
// with LoadStateDict:
//
//	state := optimizer.(optim.Stateful).StateDict()
//	// ... later, on a fresh optimizer with the same config:
//	err := resumed.(optim.Stateful).LoadStateDict(params, state)
//
// SaveState and LoadState do the same through a SafeTensors file:
//
//	err := optim.SaveState("optimizer.safetensors", optimizer)
package optim
