package optim

import (
	"math"

	"github.com/born-ml/hparams/internal/nn"
	"github.com/born-ml/hparams/internal/parallel"
)

// Adadelta adapts step sizes from running averages of both squared
// gradients and squared updates.
//
// Update rule:
//
//	accum        = rho * accum + (1-rho) * gradient²
//	update       = sqrt(accum_update + eps) / sqrt(accum + eps) * gradient
//	accum_update = rho * accum_update + (1-rho) * update²
//	param        = param - lr * update
//
// Reference: "ADADELTA: An Adaptive Learning Rate Method" (Zeiler, 2012).
type Adadelta struct {
	name        string
	lr          float32
	rho         float32
	eps         float32
	accum       slots
	accumUpdate slots
	par         parallel.Config
}

// AdadeltaConfig holds configuration for Adadelta optimizer.
type AdadeltaConfig struct {
	Name string  // Reported name (default: "Adadelta")
	LR   float32 // Learning rate (default: 0.001)
	Rho  float32 // Decay rate, in [0, 1)
	Eps  float32 // Term for numerical stability (default: 1e-8)
}

// DefaultAdadeltaConfig returns the standard Adadelta hyperparameters.
func DefaultAdadeltaConfig() AdadeltaConfig {
	return AdadeltaConfig{
		LR:  0.001,
		Rho: 0.95,
		Eps: 1e-8,
	}
}

// NewAdadelta creates a new Adadelta optimizer.
func NewAdadelta(config AdadeltaConfig) (*Adadelta, error) {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	if err := checkLR(config.LR); err != nil {
		return nil, err
	}
	if err := checkUnit("rho", config.Rho); err != nil {
		return nil, err
	}
	if err := checkPositive("epsilon", config.Eps); err != nil {
		return nil, err
	}

	return &Adadelta{
		name:        nameOr(config.Name, "Adadelta"),
		lr:          config.LR,
		rho:         config.Rho,
		eps:         config.Eps,
		accum:       make(slots),
		accumUpdate: make(slots),
		par:         parallel.DefaultConfig(),
	}, nil
}

// Step performs a single optimization step.
func (a *Adadelta) Step(params []*nn.Parameter) {
	for _, param := range params {
		grad := param.Grad()
		if grad == nil {
			continue
		}

		accum := a.accum.get(param, 0)
		accumUpdate := a.accumUpdate.get(param, 0)
		data := param.Data()

		parallel.Range(len(data), a.par, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				g := grad[i]
				accum[i] = a.rho*accum[i] + (1-a.rho)*g*g

				update := float32(math.Sqrt(float64(accumUpdate[i]+a.eps))/
					math.Sqrt(float64(accum[i]+a.eps))) * g

				accumUpdate[i] = a.rho*accumUpdate[i] + (1-a.rho)*update*update
				data[i] -= a.lr * update
			}
		})
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *Adadelta) ZeroGrad(params []*nn.Parameter) {
	zeroGrad(params)
}

// GetLR returns the current learning rate.
func (a *Adadelta) GetLR() float32 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adadelta) SetLR(lr float32) {
	a.lr = lr
}

// Name returns the optimizer name.
func (a *Adadelta) Name() string {
	return a.name
}

// Hyperparams returns the effective hyperparameters.
func (a *Adadelta) Hyperparams() map[string]any {
	return map[string]any{
		"learning_rate": a.lr,
		"rho":           a.rho,
		"epsilon":       a.eps,
	}
}

// StateDict exports both running averages.
func (a *Adadelta) StateDict() map[string][]float32 {
	state := make(map[string][]float32)
	a.accum.export("accum", state)
	a.accumUpdate.export("accum_update", state)
	return state
}

// LoadStateDict restores the running averages for params.
func (a *Adadelta) LoadStateDict(params []*nn.Parameter, state map[string][]float32) error {
	accum, err := restoreSlots("accum", params, state)
	if err != nil {
		return err
	}
	accumUpdate, err := restoreSlots("accum_update", params, state)
	if err != nil {
		return err
	}

	a.accum, a.accumUpdate = accum, accumUpdate
	return nil
}
