package optim

import (
	"math"

	"github.com/born-ml/hparams/internal/nn"
	"github.com/born-ml/hparams/internal/parallel"
)

// RMSProp divides the gradient by a running root mean square of recent
// gradients.
//
// Update rule:
//
//	ms  = decay * ms + (1-decay) * gradient²
//	mom = momentum * mom + lr * gradient / sqrt(ms + eps)
//	param = param - mom
//
// With Centered set, the mean gradient mg is tracked as well and the
// denominator becomes sqrt(ms - mg² + eps), which normalizes by the
// estimated variance instead of the second moment.
//
// The mean-square slot starts at 1, so the first steps are not inflated by
// a near-zero denominator.
type RMSProp struct {
	name     string
	lr       float32
	decay    float32
	momentum float32
	eps      float32
	centered bool
	ms       slots
	mg       slots
	mom      slots
	par      parallel.Config
}

// RMSPropConfig holds configuration for RMSProp optimizer.
type RMSPropConfig struct {
	Name     string  // Reported name (default: "RMSProp")
	LR       float32 // Learning rate (required, > 0)
	Decay    float32 // Discount factor for the history, in [0, 1)
	Momentum float32 // Momentum factor, in [0, 1)
	Eps      float32 // Term for numerical stability (default: 1e-10)
	Centered bool    // Normalize by the estimated variance of the gradient
}

// DefaultRMSPropConfig returns the standard RMSProp hyperparameters for lr.
func DefaultRMSPropConfig(lr float32) RMSPropConfig {
	return RMSPropConfig{
		LR:    lr,
		Decay: 0.9,
		Eps:   1e-10,
	}
}

// NewRMSProp creates a new RMSProp optimizer.
func NewRMSProp(config RMSPropConfig) (*RMSProp, error) {
	if config.Eps == 0 {
		config.Eps = 1e-10
	}
	if err := checkLR(config.LR); err != nil {
		return nil, err
	}
	if err := checkUnit("decay", config.Decay); err != nil {
		return nil, err
	}
	if err := checkUnit("momentum", config.Momentum); err != nil {
		return nil, err
	}
	if err := checkPositive("epsilon", config.Eps); err != nil {
		return nil, err
	}

	return &RMSProp{
		name:     nameOr(config.Name, "RMSProp"),
		lr:       config.LR,
		decay:    config.Decay,
		momentum: config.Momentum,
		eps:      config.Eps,
		centered: config.Centered,
		ms:       make(slots),
		mg:       make(slots),
		mom:      make(slots),
		par:      parallel.DefaultConfig(),
	}, nil
}

// Step performs a single optimization step.
func (r *RMSProp) Step(params []*nn.Parameter) {
	for _, param := range params {
		grad := param.Grad()
		if grad == nil {
			continue
		}

		ms := r.ms.get(param, 1)
		mom := r.mom.get(param, 0)
		var mg []float32
		if r.centered {
			mg = r.mg.get(param, 0)
		}
		data := param.Data()

		parallel.Range(len(data), r.par, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				g := grad[i]
				ms[i] = r.decay*ms[i] + (1-r.decay)*g*g

				denom := ms[i]
				if r.centered {
					mg[i] = r.decay*mg[i] + (1-r.decay)*g
					denom -= mg[i] * mg[i]
				}

				mom[i] = r.momentum*mom[i] + r.lr*g/float32(math.Sqrt(float64(denom+r.eps)))
				data[i] -= mom[i]
			}
		})
	}
}

// ZeroGrad clears gradients for all parameters.
func (r *RMSProp) ZeroGrad(params []*nn.Parameter) {
	zeroGrad(params)
}

// GetLR returns the current learning rate.
func (r *RMSProp) GetLR() float32 {
	return r.lr
}

// SetLR updates the learning rate.
func (r *RMSProp) SetLR(lr float32) {
	r.lr = lr
}

// Name returns the optimizer name.
func (r *RMSProp) Name() string {
	return r.name
}

// Hyperparams returns the effective hyperparameters.
func (r *RMSProp) Hyperparams() map[string]any {
	return map[string]any{
		"learning_rate": r.lr,
		"decay":         r.decay,
		"momentum":      r.momentum,
		"epsilon":       r.eps,
		"centered":      r.centered,
	}
}

// StateDict exports mean-square, mean-gradient (centered only) and momentum slots.
func (r *RMSProp) StateDict() map[string][]float32 {
	state := make(map[string][]float32)
	r.ms.export("ms", state)
	r.mom.export("momentum", state)
	if r.centered {
		r.mg.export("mg", state)
	}
	return state
}

// LoadStateDict restores slots for params.
func (r *RMSProp) LoadStateDict(params []*nn.Parameter, state map[string][]float32) error {
	ms, err := restoreSlots("ms", params, state)
	if err != nil {
		return err
	}
	mom, err := restoreSlots("momentum", params, state)
	if err != nil {
		return err
	}
	mg := make(slots)
	if r.centered {
		if mg, err = restoreSlots("mg", params, state); err != nil {
			return err
		}
	}

	r.ms, r.mom, r.mg = ms, mom, mg
	return nil
}
