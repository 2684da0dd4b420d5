package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/hparams/hparams"
	"github.com/born-ml/hparams/optim"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hparams.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "hparams version "+version+"\n", out)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "opt_method: GradientDescent\nopt_params:\n  learning_rate: 0.01\n")

	out, _, err := execute(t, "load", path)
	require.NoError(t, err)

	want := "optimizer: GradientDescent\n" +
		"  learning_rate: 0.01\n" +
		"  momentum: 0\n" +
		"  use_nesterov: false\n"
	assert.Equal(t, want, out)
}

func TestLoadSteps(t *testing.T) {
	path := writeFile(t, "opt_method: GradientDescent\nopt_params: {learning_rate: 0.1}\n")

	out, _, err := execute(t, "load", path, "--steps", "100")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := lines[len(lines)-1]

	var steps int
	var loss float64
	_, err = fmt.Sscanf(last, "loss after %d steps: %g", &steps, &loss)
	require.NoError(t, err, "line %q", last)
	assert.Equal(t, 100, steps)
	assert.Less(t, loss, 1e-6)
}

func TestLoadZeroStepsPrintsNoLoss(t *testing.T) {
	path := writeFile(t, "opt_method: Adam\nopt_params: {}\n")

	out, _, err := execute(t, "load", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "loss after")
	assert.Contains(t, out, "optimizer: Adam\n")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"unknown algorithm", "opt_method: Nonexistent\nopt_params: {}\n", hparams.ErrUnknownAlgorithm},
		{"missing params", "opt_method: Adam\n", hparams.ErrMissingKey},
		{"unsupported key", "opt_method: Adam\nopt_params: {momentum: 0.9}\n", hparams.ErrInvalidParameters},
		{"wrong type", "opt_method: Adam\nopt_params: {learning_rate: fast}\n", hparams.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.content)
			_, _, err := execute(t, "load", path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadNegativeSteps(t *testing.T) {
	path := writeFile(t, "opt_method: Adam\nopt_params: {}\n")
	_, _, err := execute(t, "load", path, "--steps", "-1")
	assert.Error(t, err)
}

func TestLoadRequiresFile(t *testing.T) {
	_, _, err := execute(t, "load")
	assert.Error(t, err)
}

func TestLoadDebugLogging(t *testing.T) {
	path := writeFile(t, "opt_method: SGD\nopt_params: {learning_rate: 0.5}\n")

	_, logs, err := execute(t, "--log-level", "debug", "load", path)
	require.NoError(t, err)
	assert.Contains(t, logs, `"msg":"resolved alias"`)
	assert.Contains(t, logs, `"msg":"constructed optimizer"`)
}

func TestUnknownLogLevel(t *testing.T) {
	_, _, err := execute(t, "--log-level", "loud", "version")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	out, _, err := execute(t, "list")
	require.NoError(t, err)

	for _, name := range hparams.DefaultRegistry().Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "GradientDescentOptimizer")
	assert.Contains(t, out, "learning_rate")
	assert.Contains(t, out, "required")
}

func TestQuadratic(t *testing.T) {
	assert.InDelta(t, 14.0, quadratic(quadraticStart), 1e-9)
	assert.Equal(t, 0.0, quadratic(nil))
}

func TestLoadSaveAndRestoreState(t *testing.T) {
	path := writeFile(t, "opt_method: Adam\nopt_params: {learning_rate: 0.1}\n")
	state := filepath.Join(t.TempDir(), "adam.safetensors")

	_, _, err := execute(t, "load", path, "--steps", "5", "--save-state", state)
	require.NoError(t, err)
	require.FileExists(t, state)

	_, logs, err := execute(t, "load", path, "--steps", "5", "--load-state", state)
	require.NoError(t, err)
	assert.Contains(t, logs, `"msg":"restored optimizer state"`)

	other := writeFile(t, "opt_method: Adagrad\nopt_params: {learning_rate: 0.1}\n")
	_, _, err = execute(t, "load", other, "--load-state", state)
	assert.ErrorIs(t, err, optim.ErrStateMismatch)
}
