package optim

import (
	"github.com/born-ml/hparams/internal/nn"
	"github.com/born-ml/hparams/internal/parallel"
)

// SGD implements gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Update rule with Nesterov momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * (gradient + momentum * velocity)
//
// Momentum helps accelerate SGD in relevant directions and dampens oscillations.
//
// Example:
//
//	optimizer, err := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
//
//	for epoch := range epochs {
//	    computeGradients(params)
//	    optimizer.Step(params)
//	    optimizer.ZeroGrad(params)
//	}
type SGD struct {
	name       string
	lr         float32
	momentum   float32
	nesterov   bool
	velocities slots
	par        parallel.Config
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	Name     string  // Reported name (default: "GradientDescent", or "Momentum" when Momentum > 0)
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
	Nesterov bool    // Use Nesterov momentum (requires Momentum > 0 to have an effect)
}

// NewSGD creates a new SGD optimizer.
//
// Returns an error wrapping ErrInvalidConfig if LR is negative or Momentum
// is outside [0, 1).
func NewSGD(config SGDConfig) (*SGD, error) {
	// Set defaults
	if config.LR == 0 {
		config.LR = 0.01
	}
	if err := checkLR(config.LR); err != nil {
		return nil, err
	}
	if err := checkUnit("momentum", config.Momentum); err != nil {
		return nil, err
	}

	fallback := "GradientDescent"
	if config.Momentum > 0 {
		fallback = "Momentum"
	}

	return &SGD{
		name:       nameOr(config.Name, fallback),
		lr:         config.LR,
		momentum:   config.Momentum,
		nesterov:   config.Nesterov,
		velocities: make(slots),
		par:        parallel.DefaultConfig(),
	}, nil
}

// Step performs a single optimization step.
//
// Parameters with no gradient are skipped.
func (s *SGD) Step(params []*nn.Parameter) {
	for _, param := range params {
		grad := param.Grad()
		if grad == nil {
			continue
		}

		if s.momentum == 0 {
			s.updateParameter(param, grad)
		} else {
			s.updateParameterWithMomentum(param, grad)
		}
	}
}

// updateParameter performs simple SGD update without momentum.
func (s *SGD) updateParameter(param *nn.Parameter, grad []float32) {
	data := param.Data()
	parallel.Range(len(data), s.par, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			data[i] -= s.lr * grad[i]
		}
	})
}

// updateParameterWithMomentum performs SGD update with (optionally Nesterov) momentum.
func (s *SGD) updateParameterWithMomentum(param *nn.Parameter, grad []float32) {
	velocity := s.velocities.get(param, 0)
	data := param.Data()

	parallel.Range(len(data), s.par, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			velocity[i] = s.momentum*velocity[i] + grad[i]
			if s.nesterov {
				data[i] -= s.lr * (grad[i] + s.momentum*velocity[i])
			} else {
				data[i] -= s.lr * velocity[i]
			}
		}
	})
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad(params []*nn.Parameter) {
	zeroGrad(params)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float32) {
	s.lr = lr
}

// Name returns the optimizer name.
func (s *SGD) Name() string {
	return s.name
}

// Hyperparams returns the effective hyperparameters.
func (s *SGD) Hyperparams() map[string]any {
	return map[string]any{
		"learning_rate": s.lr,
		"momentum":      s.momentum,
		"use_nesterov":  s.nesterov,
	}
}

// StateDict returns the optimizer state for serialization.
//
// For SGD with momentum, this exports velocity buffers for each parameter.
// Without momentum, returns an empty map.
func (s *SGD) StateDict() map[string][]float32 {
	state := make(map[string][]float32)
	if s.momentum == 0 {
		return state
	}
	s.velocities.export("velocity", state)
	return state
}

// LoadStateDict loads optimizer state from serialization.
//
// If momentum is 0, the provided state is ignored.
func (s *SGD) LoadStateDict(params []*nn.Parameter, state map[string][]float32) error {
	if s.momentum == 0 {
		return nil
	}
	velocities, err := restoreSlots("velocity", params, state)
	if err != nil {
		return err
	}
	s.velocities = velocities
	return nil
}
