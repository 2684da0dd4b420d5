package hparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/hparams/internal/optim"
)

func stubFactory(Args) (optim.Optimizer, error) {
	return built(optim.NewSGD(optim.SGDConfig{}))
}

func TestNewRegistry_Lookup(t *testing.T) {
	r, err := NewRegistry(
		Entry{Name: "A", Aliases: []string{"AlphaOptimizer"}, New: stubFactory},
		Entry{Name: "B", New: stubFactory},
	)
	require.NoError(t, err)

	e, ok := r.Lookup("AlphaOptimizer")
	require.True(t, ok)
	assert.Equal(t, "A", e.Name)

	_, ok = r.Lookup("alphaoptimizer")
	assert.False(t, ok, "lookup is case-sensitive")

	assert.Equal(t, []string{"A", "B"}, r.Names())
}

func TestNewRegistry_Duplicates(t *testing.T) {
	_, err := NewRegistry(
		Entry{Name: "A", New: stubFactory},
		Entry{Name: "B", Aliases: []string{"A"}, New: stubFactory},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `already used by "A"`)

	_, err = NewRegistry(Entry{Name: "A", Aliases: []string{"A"}, New: stubFactory})
	assert.Error(t, err)
}

func TestNewRegistry_InvalidEntries(t *testing.T) {
	_, err := NewRegistry(Entry{New: stubFactory})
	assert.Error(t, err)

	_, err = NewRegistry(Entry{Name: "NoFactory"})
	assert.Error(t, err)
}

func TestNewRegistry_CopiesEntries(t *testing.T) {
	aliases := []string{"X"}
	r, err := NewRegistry(Entry{Name: "A", Aliases: aliases, New: stubFactory})
	require.NoError(t, err)

	aliases[0] = "Y"
	e, _ := r.Lookup("A")
	assert.Equal(t, []string{"X"}, e.Aliases)
}

func TestDefaultRegistry_Aliases(t *testing.T) {
	r := DefaultRegistry()

	pairs := map[string]string{
		"GradientDescentOptimizer": "GradientDescent",
		"SGD":                      "GradientDescent",
		"MomentumOptimizer":        "Momentum",
		"AdamOptimizer":            "Adam",
		"AdamWOptimizer":           "AdamW",
		"AdagradOptimizer":         "Adagrad",
		"RMSPropOptimizer":         "RMSProp",
		"AdadeltaOptimizer":        "Adadelta",
	}
	for alias, name := range pairs {
		e, ok := r.Lookup(alias)
		require.True(t, ok, alias)
		assert.Equal(t, name, e.Name)
	}
}

func TestDefaultRegistry_SpecsAreConsistent(t *testing.T) {
	for _, e := range DefaultRegistry().Entries() {
		seen := make(map[string]bool)
		for _, spec := range e.Params {
			assert.False(t, seen[spec.Name], "%s declares %s twice", e.Name, spec.Name)
			seen[spec.Name] = true

			if spec.Required {
				assert.Nil(t, spec.Default, "%s.%s is required but has a default", e.Name, spec.Name)
				continue
			}
			_, err := coerce(spec.Kind, spec.Default)
			assert.NoError(t, err, "%s.%s default does not match its kind", e.Name, spec.Name)
		}
		assert.True(t, seen["use_locking"], e.Name)
		assert.True(t, seen["name"], e.Name)
	}
}

func TestDefaultRegistry_FactoriesBuildFromDefaults(t *testing.T) {
	for _, e := range DefaultRegistry().Entries() {
		raw := make(map[string]any)
		for _, spec := range e.Params {
			if spec.Required {
				raw[spec.Name] = 0.5
			}
		}

		args, err := bindArgs(e.Params, raw)
		require.NoError(t, err, e.Name)

		o, err := e.New(args)
		require.NoError(t, err, e.Name)
		assert.Equal(t, e.Name, o.Name())
	}
}
