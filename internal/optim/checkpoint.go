package optim

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/born-ml/hparams/internal/nn"
	"github.com/born-ml/hparams/internal/serialization"
)

// ErrStateMismatch is returned by LoadState when a state file was written by
// a different optimizer.
var ErrStateMismatch = errors.New("optim: state file does not match optimizer")

// Metadata keys written by SaveState.
const (
	MetaOptimizer    = "optimizer"
	MetaLearningRate = "learning_rate"
)

// SaveState writes the state of o to path in SafeTensors format.
//
// The optimizer name and current learning rate are recorded as metadata.
// Returns an error if o does not implement Stateful.
func SaveState(path string, o Optimizer) error {
	s, ok := o.(Stateful)
	if !ok {
		return fmt.Errorf("optim: %s has no state to save", o.Name())
	}

	meta := map[string]string{
		MetaOptimizer:    o.Name(),
		MetaLearningRate: strconv.FormatFloat(float64(o.GetLR()), 'g', -1, 32),
	}
	if err := serialization.SaveState(path, s.StateDict(), meta); err != nil {
		return fmt.Errorf("failed to save optimizer state: %w", err)
	}
	return nil
}

// LoadState restores the state of o for params from a file written by SaveState.
//
// Returns ErrStateMismatch if the file names a different optimizer. The
// learning rate of o is left unchanged.
func LoadState(path string, o Optimizer, params []*nn.Parameter) error {
	s, ok := o.(Stateful)
	if !ok {
		return fmt.Errorf("optim: %s has no state to load", o.Name())
	}

	state, err := serialization.LoadState(path)
	if err != nil {
		return fmt.Errorf("failed to load optimizer state: %w", err)
	}
	if name := state.Metadata[MetaOptimizer]; name != o.Name() {
		return fmt.Errorf("%w: file has %q, optimizer is %q", ErrStateMismatch, name, o.Name())
	}
	return s.LoadStateDict(params, state.Tensors)
}
