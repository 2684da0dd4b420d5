package optim_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/hparams/internal/nn"
	"github.com/born-ml/hparams/internal/optim"
	"github.com/born-ml/hparams/internal/serialization"
)

func TestSaveLoadState_Adam(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adam.safetensors")

	a := scalar(t, "x", 1.0, 0.5)
	first, err := optim.NewAdam(optim.DefaultAdamConfig())
	require.NoError(t, err)
	first.Step([]*nn.Parameter{a})
	first.Step([]*nn.Parameter{a})

	require.NoError(t, optim.SaveState(path, first))

	file, err := serialization.LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, "Adam", file.Metadata[optim.MetaOptimizer])
	assert.Equal(t, "0.001", file.Metadata[optim.MetaLearningRate])

	b := scalar(t, "x", a.Data()[0], 0.5)
	second, err := optim.NewAdam(optim.DefaultAdamConfig())
	require.NoError(t, err)
	require.NoError(t, optim.LoadState(path, second, []*nn.Parameter{b}))

	assert.Equal(t, 2, second.GetTimestep())
	assert.Equal(t, first.StateDict(), second.StateDict())

	require.NoError(t, a.SetGrad([]float32{0.5}))
	first.Step([]*nn.Parameter{a})
	second.Step([]*nn.Parameter{b})
	assert.Equal(t, a.Data()[0], b.Data()[0])
}

func TestSaveLoadState_EmptySGD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sgd.safetensors")

	optimizer, err := optim.NewSGD(optim.SGDConfig{LR: 0.1})
	require.NoError(t, err)
	require.NoError(t, optim.SaveState(path, optimizer))

	param := nn.NewParameter("x", []float32{1})
	require.NoError(t, optim.LoadState(path, optimizer, []*nn.Parameter{param}))
	assert.Empty(t, optimizer.StateDict())
}

func TestLoadState_Mismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adagrad.safetensors")

	adagrad, err := optim.NewAdagrad(optim.AdagradConfig{LR: 0.1})
	require.NoError(t, err)
	require.NoError(t, optim.SaveState(path, adagrad))

	adam, err := optim.NewAdam(optim.DefaultAdamConfig())
	require.NoError(t, err)

	err = optim.LoadState(path, adam, nil)
	assert.ErrorIs(t, err, optim.ErrStateMismatch)
}

func TestLoadState_MissingFile(t *testing.T) {
	optimizer, err := optim.NewAdagrad(optim.AdagradConfig{LR: 0.1})
	require.NoError(t, err)

	err = optim.LoadState(filepath.Join(t.TempDir(), "missing"), optimizer, nil)
	assert.Error(t, err)
}
