package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameter_Accessors(t *testing.T) {
	data := []float32{1, 2, 3}
	p := NewParameter("w", data)

	assert.Equal(t, "w", p.Name())
	assert.Equal(t, 3, p.Len())
	assert.Nil(t, p.Grad())

	// Data is shared, not copied.
	p.Data()[0] = 10
	assert.Equal(t, float32(10), data[0])
}

func TestParameter_SetGrad(t *testing.T) {
	p := NewParameter("w", []float32{1, 2})

	require.NoError(t, p.SetGrad([]float32{0.5, -0.5}))
	assert.Equal(t, []float32{0.5, -0.5}, p.Grad())

	p.ZeroGrad()
	assert.Nil(t, p.Grad())
}

func TestParameter_SetGradLengthMismatch(t *testing.T) {
	p := NewParameter("bias", []float32{1, 2})

	err := p.SetGrad([]float32{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bias"`)
	assert.Nil(t, p.Grad())
}
