package hparams

import (
	"fmt"

	"github.com/born-ml/hparams/internal/optim"
)

// Parameter names shared across algorithms.
const (
	paramLR         = "learning_rate"
	paramMomentum   = "momentum"
	paramEpsilon    = "epsilon"
	paramUseLocking = "use_locking"
	paramName       = "name"
)

// defaultRegistry holds the built-in algorithms. It is never mutated.
var defaultRegistry = mustRegistry(builtinEntries()...)

// DefaultRegistry returns the registry of built-in algorithms.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func mustRegistry(entries ...Entry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// common returns the keyword arguments every built-in algorithm accepts.
//
// use_locking is accepted for compatibility with TensorFlow-style documents;
// updates are already exclusive per Step call, so it has no effect.
func common(name string) []ParamSpec {
	return []ParamSpec{
		{Name: paramUseLocking, Kind: Bool, Default: false, Doc: "accepted for compatibility; no effect"},
		{Name: paramName, Kind: String, Default: name, Doc: "optimizer name"},
	}
}

func lrSpec(required bool, def float64) ParamSpec {
	spec := ParamSpec{Name: paramLR, Kind: Float, Required: required, Doc: "learning rate"}
	if !required {
		spec.Default = def
	}
	return spec
}

// built adapts a typed constructor result to a Factory result.
//
// A nil *T must not leak into the interface on error.
func built[T optim.Optimizer](o T, err error) (optim.Optimizer, error) {
	if err != nil {
		return nil, err
	}
	return o, nil
}

// positive rejects values that are not strictly positive after narrowing
// to float32. The optim constructors treat zero as "use the default", which
// would silently replace an explicit 0 from a document.
func positive(a Args, names ...string) error {
	for _, name := range names {
		if v := a.Float32(name); !(v > 0) {
			return fmt.Errorf("%s must be positive, got %g", name, a.Float(name))
		}
	}
	return nil
}

func builtinEntries() []Entry {
	return []Entry{
		{
			Name:    "GradientDescent",
			Aliases: []string{"GradientDescentOptimizer", "SGD"},
			Params: append([]ParamSpec{
				lrSpec(true, 0),
			}, common("GradientDescent")...),
			New: func(a Args) (optim.Optimizer, error) {
				if err := positive(a, paramLR); err != nil {
					return nil, err
				}
				return built(optim.NewSGD(optim.SGDConfig{
					Name: a.String(paramName),
					LR:   a.Float32(paramLR),
				}))
			},
		},
		{
			Name:    "Momentum",
			Aliases: []string{"MomentumOptimizer"},
			Params: append([]ParamSpec{
				lrSpec(true, 0),
				{Name: paramMomentum, Kind: Float, Required: true, Doc: "momentum factor in [0, 1)"},
				{Name: "use_nesterov", Kind: Bool, Default: false, Doc: "use Nesterov momentum"},
			}, common("Momentum")...),
			New: func(a Args) (optim.Optimizer, error) {
				if err := positive(a, paramLR); err != nil {
					return nil, err
				}
				return built(optim.NewSGD(optim.SGDConfig{
					Name:     a.String(paramName),
					LR:       a.Float32(paramLR),
					Momentum: a.Float32(paramMomentum),
					Nesterov: a.Bool("use_nesterov"),
				}))
			},
		},
		{
			Name:    "Adam",
			Aliases: []string{"AdamOptimizer"},
			Params:  append(adamSpecs(), common("Adam")...),
			New: func(a Args) (optim.Optimizer, error) {
				if err := positive(a, paramLR, paramEpsilon); err != nil {
					return nil, err
				}
				return built(optim.NewAdam(adamConfig(a)))
			},
		},
		{
			Name:    "AdamW",
			Aliases: []string{"AdamWOptimizer"},
			Params: append(append(adamSpecs(),
				ParamSpec{Name: "weight_decay", Kind: Float, Default: 0.01, Doc: "decoupled weight decay"},
			), common("AdamW")...),
			New: func(a Args) (optim.Optimizer, error) {
				if err := positive(a, paramLR, paramEpsilon); err != nil {
					return nil, err
				}
				return built(optim.NewAdamW(optim.AdamWConfig{
					AdamConfig:  adamConfig(a),
					WeightDecay: a.Float32("weight_decay"),
				}))
			},
		},
		{
			Name:    "Adagrad",
			Aliases: []string{"AdagradOptimizer"},
			Params: append([]ParamSpec{
				lrSpec(true, 0),
				{Name: "initial_accumulator_value", Kind: Float, Default: 0.1, Doc: "starting accumulator value"},
			}, common("Adagrad")...),
			New: func(a Args) (optim.Optimizer, error) {
				if err := positive(a, paramLR, "initial_accumulator_value"); err != nil {
					return nil, err
				}
				return built(optim.NewAdagrad(optim.AdagradConfig{
					Name:               a.String(paramName),
					LR:                 a.Float32(paramLR),
					InitialAccumulator: a.Float32("initial_accumulator_value"),
				}))
			},
		},
		{
			Name:    "RMSProp",
			Aliases: []string{"RMSPropOptimizer"},
			Params: append([]ParamSpec{
				lrSpec(true, 0),
				{Name: "decay", Kind: Float, Default: 0.9, Doc: "discount factor for the history"},
				{Name: paramMomentum, Kind: Float, Default: 0.0, Doc: "momentum factor in [0, 1)"},
				{Name: paramEpsilon, Kind: Float, Default: 1e-10, Doc: "numerical stability term"},
				{Name: "centered", Kind: Bool, Default: false, Doc: "normalize by gradient variance"},
			}, common("RMSProp")...),
			New: func(a Args) (optim.Optimizer, error) {
				if err := positive(a, paramLR, paramEpsilon); err != nil {
					return nil, err
				}
				return built(optim.NewRMSProp(optim.RMSPropConfig{
					Name:     a.String(paramName),
					LR:       a.Float32(paramLR),
					Decay:    a.Float32("decay"),
					Momentum: a.Float32(paramMomentum),
					Eps:      a.Float32(paramEpsilon),
					Centered: a.Bool("centered"),
				}))
			},
		},
		{
			Name:    "Adadelta",
			Aliases: []string{"AdadeltaOptimizer"},
			Params: append([]ParamSpec{
				lrSpec(false, 0.001),
				{Name: "rho", Kind: Float, Default: 0.95, Doc: "decay rate"},
				{Name: paramEpsilon, Kind: Float, Default: 1e-8, Doc: "numerical stability term"},
			}, common("Adadelta")...),
			New: func(a Args) (optim.Optimizer, error) {
				if err := positive(a, paramLR, paramEpsilon); err != nil {
					return nil, err
				}
				return built(optim.NewAdadelta(optim.AdadeltaConfig{
					Name: a.String(paramName),
					LR:   a.Float32(paramLR),
					Rho:  a.Float32("rho"),
					Eps:  a.Float32(paramEpsilon),
				}))
			},
		},
	}
}

func adamSpecs() []ParamSpec {
	return []ParamSpec{
		lrSpec(false, 0.001),
		{Name: "beta1", Kind: Float, Default: 0.9, Doc: "first moment decay in [0, 1)"},
		{Name: "beta2", Kind: Float, Default: 0.999, Doc: "second moment decay in [0, 1)"},
		{Name: paramEpsilon, Kind: Float, Default: 1e-8, Doc: "numerical stability term"},
	}
}

func adamConfig(a Args) optim.AdamConfig {
	return optim.AdamConfig{
		Name:  a.String(paramName),
		LR:    a.Float32(paramLR),
		Betas: [2]float32{a.Float32("beta1"), a.Float32("beta2")},
		Eps:   a.Float32(paramEpsilon),
	}
}
