// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package hparams builds optimizers from YAML hyperparameter files.
//
// # Overview
//
// A hyperparameter file names an optimization algorithm and its
// constructor arguments:
//
//	opt_method: Adam
//	opt_params:
//	  learning_rate: 0.001
//	  beta1: 0.9
//	  beta2: 0.999
//
// Load turns the file into a ready-to-use optim.Optimizer:
//
//	optimizer, err := hparams.Load("hparams.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Algorithms
//
// The default registry knows GradientDescent, Momentum, Adam, AdamW,
// Adagrad, RMSProp and Adadelta. TensorFlow class names such as
// GradientDescentOptimizer and AdamOptimizer are accepted as aliases, and
// every algorithm accepts the use_locking and name arguments.
//
// # Errors
//
//   - ErrMissingKey: opt_method or opt_params is absent
//   - ErrUnknownAlgorithm: opt_method is not registered
//   - ErrInvalidParameters: unsupported or missing arguments, or values out of range
//   - ErrTypeMismatch: an argument has the wrong type
//   - ErrUntrustedTag: the document carries a non-core YAML tag (TrustSafe only)
package hparams
