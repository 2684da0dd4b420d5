// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/hparams/internal/nn"
	"github.com/born-ml/hparams/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Stateful is implemented by optimizers with per-parameter state.
type Stateful = optim.Stateful

// ErrInvalidConfig is returned when a hyperparameter is out of range.
var ErrInvalidConfig = optim.ErrInvalidConfig

// ErrStateMismatch is returned by LoadState when a state file was written by
// a different optimizer.
var ErrStateMismatch = optim.ErrStateMismatch

// SGD (Stochastic Gradient Descent)

// SGD represents gradient descent with optional (Nesterov) momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer, err := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
func NewSGD(config SGDConfig) (*SGD, error) {
	return optim.NewSGD(config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer (and AdamW, see NewAdamW).
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// AdamWConfig contains configuration for AdamW optimizer.
type AdamWConfig = optim.AdamWConfig

// DefaultAdamConfig returns LR 0.001, Betas {0.9, 0.999}, Eps 1e-8.
func DefaultAdamConfig() AdamConfig {
	return optim.DefaultAdamConfig()
}

// DefaultAdamWConfig returns the Adam defaults plus WeightDecay 0.01.
func DefaultAdamWConfig() AdamWConfig {
	return optim.DefaultAdamWConfig()
}

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer, err := optim.NewAdam(optim.DefaultAdamConfig())
func NewAdam(config AdamConfig) (*Adam, error) {
	return optim.NewAdam(config)
}

// NewAdamW creates a new Adam optimizer with decoupled weight decay.
func NewAdamW(config AdamWConfig) (*Adam, error) {
	return optim.NewAdamW(config)
}

// Adaptive per-element methods

// Adagrad represents the Adagrad optimizer.
type Adagrad = optim.Adagrad

// AdagradConfig contains configuration for Adagrad optimizer.
type AdagradConfig = optim.AdagradConfig

// NewAdagrad creates a new Adagrad optimizer.
func NewAdagrad(config AdagradConfig) (*Adagrad, error) {
	return optim.NewAdagrad(config)
}

// RMSProp represents the RMSProp optimizer.
type RMSProp = optim.RMSProp

// RMSPropConfig contains configuration for RMSProp optimizer.
type RMSPropConfig = optim.RMSPropConfig

// DefaultRMSPropConfig returns Decay 0.9, Momentum 0, Eps 1e-10 for lr.
func DefaultRMSPropConfig(lr float32) RMSPropConfig {
	return optim.DefaultRMSPropConfig(lr)
}

// NewRMSProp creates a new RMSProp optimizer.
func NewRMSProp(config RMSPropConfig) (*RMSProp, error) {
	return optim.NewRMSProp(config)
}

// Adadelta represents the Adadelta optimizer.
type Adadelta = optim.Adadelta

// AdadeltaConfig contains configuration for Adadelta optimizer.
type AdadeltaConfig = optim.AdadeltaConfig

// DefaultAdadeltaConfig returns LR 0.001, Rho 0.95, Eps 1e-8.
func DefaultAdadeltaConfig() AdadeltaConfig {
	return optim.DefaultAdadeltaConfig()
}

// NewAdadelta creates a new Adadelta optimizer.
func NewAdadelta(config AdadeltaConfig) (*Adadelta, error) {
	return optim.NewAdadelta(config)
}

// Checkpointing

// SaveState writes the state of a Stateful optimizer to path (SafeTensors).
func SaveState(path string, o Optimizer) error {
	return optim.SaveState(path, o)
}

// LoadState restores the state of o for params from a file written by SaveState.
//
// Example:
//
//	optimizer, _ := hparams.Load("hparams.yaml")
//	if err := optim.LoadState("optimizer.safetensors", optimizer, params); err != nil {
//	    log.Fatal(err)
//	}
func LoadState(path string, o Optimizer, params []*nn.Parameter) error {
	return optim.LoadState(path, o, params)
}
