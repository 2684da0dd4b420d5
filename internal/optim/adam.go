package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/hparams/internal/nn"
	"github.com/born-ml/hparams/internal/parallel"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Adam combines ideas from RMSprop and momentum:
//   - Maintains exponential moving averages of gradients (first moment)
//   - Maintains exponential moving averages of squared gradients (second moment)
//   - Applies bias correction to compensate for initialization at zero
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)  // Parameter update
//
// The same type implements AdamW (see NewAdamW), which adds decoupled weight
// decay to the update:
//
//	param = param - lr * (m_hat / (sqrt(v_hat) + eps) + weight_decay * param)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014),
// "Decoupled Weight Decay Regularization" (Loshchilov & Hutter, 2019).
type Adam struct {
	name        string
	lr          float32
	beta1       float32
	beta2       float32
	eps         float32
	weightDecay float32
	decoupled   bool  // AdamW
	t           int   // Timestep for bias correction
	m           slots // First moment estimates
	v           slots // Second moment estimates
	par         parallel.Config
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	Name  string     // Reported name (default: "Adam")
	LR    float32    // Learning rate (default: 0.001)
	Betas [2]float32 // Coefficients for computing running averages, each in [0, 1)
	Eps   float32    // Term for numerical stability (default: 1e-8)
}

// DefaultAdamConfig returns the standard Adam hyperparameters.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LR:    0.001,
		Betas: [2]float32{0.9, 0.999},
		Eps:   1e-8,
	}
}

// AdamWConfig holds configuration for AdamW optimizer.
type AdamWConfig struct {
	AdamConfig
	WeightDecay float32 // Decoupled weight decay coefficient (>= 0)
}

// DefaultAdamWConfig returns the standard AdamW hyperparameters.
func DefaultAdamWConfig() AdamWConfig {
	return AdamWConfig{
		AdamConfig:  DefaultAdamConfig(),
		WeightDecay: 0.01,
	}
}

// NewAdam creates a new Adam optimizer.
//
// Zero LR and Eps are replaced by their defaults. Betas are taken as given,
// since zero is a valid coefficient; start from DefaultAdamConfig to get the
// standard values.
func NewAdam(config AdamConfig) (*Adam, error) {
	return newAdam(config, "Adam")
}

// NewAdamW creates a new AdamW optimizer.
func NewAdamW(config AdamWConfig) (*Adam, error) {
	if !(config.WeightDecay >= 0) {
		return nil, invalidf("weight_decay must be non-negative, got %g", config.WeightDecay)
	}

	a, err := newAdam(config.AdamConfig, "AdamW")
	if err != nil {
		return nil, err
	}
	a.weightDecay = config.WeightDecay
	a.decoupled = true
	return a, nil
}

func newAdam(config AdamConfig, fallback string) (*Adam, error) {
	// Set defaults
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	if err := checkLR(config.LR); err != nil {
		return nil, err
	}
	if err := checkUnit("beta1", config.Betas[0]); err != nil {
		return nil, err
	}
	if err := checkUnit("beta2", config.Betas[1]); err != nil {
		return nil, err
	}
	if err := checkPositive("epsilon", config.Eps); err != nil {
		return nil, err
	}

	return &Adam{
		name:  nameOr(config.Name, fallback),
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
		m:     make(slots),
		v:     make(slots),
		par:   parallel.DefaultConfig(),
	}, nil
}

// Step performs a single optimization step using Adam algorithm.
//
// Parameters with no gradient are skipped.
func (a *Adam) Step(params []*nn.Parameter) {
	// Increment timestep
	a.t++

	// bias_correction1 = 1 - beta1^t
	// bias_correction2 = 1 - beta2^t
	biasCorrection1 := float32(1.0 - math.Pow(float64(a.beta1), float64(a.t)))
	biasCorrection2 := float32(1.0 - math.Pow(float64(a.beta2), float64(a.t)))

	for _, param := range params {
		grad := param.Grad()
		if grad == nil {
			continue
		}

		m := a.m.get(param, 0)
		v := a.v.get(param, 0)

		a.updateParameter(param, grad, m, v, biasCorrection1, biasCorrection2)
	}
}

// updateParameter performs Adam update for a single parameter.
func (a *Adam) updateParameter(
	param *nn.Parameter,
	grad, m, v []float32,
	biasCorrection1, biasCorrection2 float32,
) {
	data := param.Data()

	parallel.Range(len(data), a.par, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			g := grad[i]

			m[i] = a.beta1*m[i] + (1.0-a.beta1)*g
			v[i] = a.beta2*v[i] + (1.0-a.beta2)*g*g

			mHat := m[i] / biasCorrection1
			vHat := v[i] / biasCorrection2

			update := mHat / (float32(math.Sqrt(float64(vHat))) + a.eps)
			if a.decoupled {
				update += a.weightDecay * data[i]
			}
			data[i] -= a.lr * update
		}
	})
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam) ZeroGrad(params []*nn.Parameter) {
	zeroGrad(params)
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float32 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float32) {
	a.lr = lr
}

// Name returns the optimizer name.
func (a *Adam) Name() string {
	return a.name
}

// GetTimestep returns the current timestep.
//
// Useful for monitoring optimizer state.
func (a *Adam) GetTimestep() int {
	return a.t
}

// Hyperparams returns the effective hyperparameters.
func (a *Adam) Hyperparams() map[string]any {
	hp := map[string]any{
		"learning_rate": a.lr,
		"beta1":         a.beta1,
		"beta2":         a.beta2,
		"epsilon":       a.eps,
	}
	if a.decoupled {
		hp["weight_decay"] = a.weightDecay
	}
	return hp
}

// StateDict exports first and second moments plus the timestep.
//
// The timestep is stored under "step" as {t / 2^24, t mod 2^24}; both
// halves are exact in float32.
func (a *Adam) StateDict() map[string][]float32 {
	state := map[string][]float32{
		"step": encodeStep(a.t),
	}
	a.m.export("m", state)
	a.v.export("v", state)
	return state
}

// LoadStateDict restores moments and timestep for params.
func (a *Adam) LoadStateDict(params []*nn.Parameter, state map[string][]float32) error {
	t := 0
	if step, ok := state["step"]; ok {
		var err error
		if t, err = decodeStep(step); err != nil {
			return err
		}
	}
	m, err := restoreSlots("m", params, state)
	if err != nil {
		return err
	}
	v, err := restoreSlots("v", params, state)
	if err != nil {
		return err
	}

	a.t, a.m, a.v = t, m, v
	return nil
}

// stepRadix is 2^24; every integer in [0, 2^24] is exact in float32.
const stepRadix = 1 << 24

func encodeStep(t int) []float32 {
	return []float32{float32(t / stepRadix), float32(t % stepRadix)}
}

// decodeStep accepts the two-element form written by encodeStep and a
// plain single-element count.
func decodeStep(step []float32) (int, error) {
	for _, v := range step {
		if !(v >= 0) || math.IsInf(float64(v), 1) || v != float32(math.Trunc(float64(v))) {
			return 0, fmt.Errorf("invalid step %v", step)
		}
	}
	switch len(step) {
	case 1:
		return int(step[0]), nil
	case 2:
		if step[1] >= stepRadix {
			return 0, fmt.Errorf("invalid step %v", step)
		}
		return int(step[0])*stepRadix + int(step[1]), nil
	default:
		return 0, fmt.Errorf("step must have 1 or 2 elements, got %d", len(step))
	}
}
