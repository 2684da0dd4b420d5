// Package optim implements optimization algorithms for training models.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Gradient descent with optional (Nesterov) momentum
//   - Adam and AdamW: Adaptive Moment Estimation, AdamW with decoupled weight decay
//   - Adagrad, RMSProp, Adadelta: per-element adaptive learning rates
//
// Optimizers are constructed from an explicit config struct and do not bind
// to a parameter set until Step is called. Per-parameter state (velocities,
// moments, accumulators) is keyed by parameter name.
//
// Example usage:
//
//	optimizer, err := optim.NewAdam(optim.AdamConfig{LR: 0.001})
//	if err != nil {
//	    return err
//	}
//
//	for epoch := range epochs {
//	    computeGradients(params)
//	    optimizer.Step(params)
//	    optimizer.ZeroGrad(params)
//	}
package optim

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/born-ml/hparams/internal/nn"
)

// ErrInvalidConfig is returned by constructors when a hyperparameter is out of range.
var ErrInvalidConfig = errors.New("optim: invalid config")

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - GetLR/SetLR: Learning rate access (for monitoring/scheduling)
//   - Name/Hyperparams: Introspection of the effective configuration
type Optimizer interface {
	// Step applies one update to every parameter that has a gradient.
	//
	// Parameters without a gradient are skipped.
	Step(params []*nn.Parameter)

	// ZeroGrad clears the gradients of params.
	ZeroGrad(params []*nn.Parameter)

	// GetLR returns the current learning rate.
	GetLR() float32

	// SetLR updates the learning rate.
	SetLR(lr float32)

	// Name returns the optimizer name.
	Name() string

	// Hyperparams returns the effective hyperparameters keyed by their
	// configuration names (learning_rate, beta1, ...).
	Hyperparams() map[string]any
}

// Stateful is implemented by optimizers that keep per-parameter state.
type Stateful interface {
	// StateDict returns a copy of the optimizer state.
	//
	// Keys have the form "{slot}.{param name}", e.g. "velocity.linear1.weight".
	StateDict() map[string][]float32

	// LoadStateDict restores state for params.
	//
	// Returns an error if a slot length does not match its parameter length.
	LoadStateDict(params []*nn.Parameter, state map[string][]float32) error
}

// zeroGrad clears gradients for all params.
func zeroGrad(params []*nn.Parameter) {
	for _, param := range params {
		param.ZeroGrad()
	}
}

// slots holds one state vector per parameter name.
type slots map[string][]float32

// get returns the slot for param, allocating it filled with init on first use.
func (s slots) get(param *nn.Parameter, init float32) []float32 {
	buf, ok := s[param.Name()]
	if ok && len(buf) == param.Len() {
		return buf
	}

	buf = make([]float32, param.Len())
	if init != 0 {
		for i := range buf {
			buf[i] = init
		}
	}
	s[param.Name()] = buf
	return buf
}

// export copies every slot into dst under "{prefix}.{param name}".
func (s slots) export(prefix string, dst map[string][]float32) {
	for _, name := range slices.Sorted(maps.Keys(s)) {
		dst[prefix+"."+name] = slices.Clone(s[name])
	}
}

// restoreSlots builds slots from the entries of state that belong to params.
//
// Parameters without an entry start fresh on the next Step. Callers assign
// the result only after every slot set restored, so a failed load leaves
// the optimizer unchanged.
func restoreSlots(prefix string, params []*nn.Parameter, state map[string][]float32) (slots, error) {
	s := make(slots)
	for _, param := range params {
		key := prefix + "." + param.Name()
		buf, ok := state[key]
		if !ok {
			continue
		}
		if len(buf) != param.Len() {
			return nil, fmt.Errorf("%s length mismatch for parameter %q: expected %d, got %d",
				prefix, param.Name(), param.Len(), len(buf))
		}
		s[param.Name()] = slices.Clone(buf)
	}
	return s, nil
}

// invalidf returns an error wrapping ErrInvalidConfig.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

// checkLR validates a learning rate.
func checkLR(lr float32) error {
	return checkPositive("learning_rate", lr)
}

// checkUnit validates a decay-style coefficient in [0, 1).
func checkUnit(name string, v float32) error {
	if !(v >= 0 && v < 1) {
		return invalidf("%s must be in [0, 1), got %g", name, v)
	}
	return nil
}

// checkPositive validates a strictly positive value.
func checkPositive(name string, v float32) error {
	if !(v > 0) {
		return invalidf("%s must be positive, got %g", name, v)
	}
	return nil
}

// nameOr returns name, or fallback when name is empty.
func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
