package optim

import (
	"math"

	"github.com/born-ml/hparams/internal/nn"
	"github.com/born-ml/hparams/internal/parallel"
)

// Adagrad scales each element's step by the inverse square root of its
// accumulated squared gradients.
//
// Update rule:
//
//	accum = accum + gradient²
//	param = param - lr * gradient / sqrt(accum)
//
// The accumulator starts at InitialAccumulator, which keeps the first
// division well defined.
type Adagrad struct {
	name        string
	lr          float32
	initial     float32
	accumulator slots
	par         parallel.Config
}

// AdagradConfig holds configuration for Adagrad optimizer.
type AdagradConfig struct {
	Name               string  // Reported name (default: "Adagrad")
	LR                 float32 // Learning rate (required, > 0)
	InitialAccumulator float32 // Starting accumulator value (default: 0.1)
}

// NewAdagrad creates a new Adagrad optimizer.
func NewAdagrad(config AdagradConfig) (*Adagrad, error) {
	if config.InitialAccumulator == 0 {
		config.InitialAccumulator = 0.1
	}
	if err := checkLR(config.LR); err != nil {
		return nil, err
	}
	if err := checkPositive("initial_accumulator_value", config.InitialAccumulator); err != nil {
		return nil, err
	}

	return &Adagrad{
		name:        nameOr(config.Name, "Adagrad"),
		lr:          config.LR,
		initial:     config.InitialAccumulator,
		accumulator: make(slots),
		par:         parallel.DefaultConfig(),
	}, nil
}

// Step performs a single optimization step.
func (a *Adagrad) Step(params []*nn.Parameter) {
	for _, param := range params {
		grad := param.Grad()
		if grad == nil {
			continue
		}

		accum := a.accumulator.get(param, a.initial)
		data := param.Data()

		parallel.Range(len(data), a.par, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				g := grad[i]
				accum[i] += g * g
				data[i] -= a.lr * g / float32(math.Sqrt(float64(accum[i])))
			}
		})
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *Adagrad) ZeroGrad(params []*nn.Parameter) {
	zeroGrad(params)
}

// GetLR returns the current learning rate.
func (a *Adagrad) GetLR() float32 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adagrad) SetLR(lr float32) {
	a.lr = lr
}

// Name returns the optimizer name.
func (a *Adagrad) Name() string {
	return a.name
}

// Hyperparams returns the effective hyperparameters.
func (a *Adagrad) Hyperparams() map[string]any {
	return map[string]any{
		"learning_rate":             a.lr,
		"initial_accumulator_value": a.initial,
	}
}

// StateDict exports the squared-gradient accumulators.
func (a *Adagrad) StateDict() map[string][]float32 {
	state := make(map[string][]float32)
	a.accumulator.export("accumulator", state)
	return state
}

// LoadStateDict restores the accumulators for params.
func (a *Adagrad) LoadStateDict(params []*nn.Parameter, state map[string][]float32) error {
	accumulator, err := restoreSlots("accumulator", params, state)
	if err != nil {
		return err
	}
	a.accumulator = accumulator
	return nil
}
