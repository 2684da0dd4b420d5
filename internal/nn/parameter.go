package nn

import "fmt"

// Parameter represents a trainable parameter.
//
// A parameter is a named, flat float32 vector plus an optional gradient of
// the same length. Optimizers update Data in place and key their per-parameter
// state by Name, so names must be unique within one optimizer's parameter set.
//
// Example:
//
//	w := nn.NewParameter("linear1.weight", []float32{0.1, -0.2})
//	_ = w.SetGrad([]float32{0.5, 0.5})
//	optimizer.Step([]*nn.Parameter{w})
type Parameter struct {
	name string    // Parameter name (e.g., "weight", "bias")
	data []float32 // Parameter values, updated in place
	grad []float32 // Gradient (nil until set)
}

// NewParameter creates a new trainable parameter backed by data.
//
// The slice is not copied; updates made by optimizers are visible to the caller.
func NewParameter(name string, data []float32) *Parameter {
	return &Parameter{
		name: name,
		data: data,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Data returns the parameter values.
func (p *Parameter) Data() []float32 {
	return p.data
}

// Len returns the number of elements.
func (p *Parameter) Len() int {
	return len(p.data)
}

// Grad returns the gradient.
//
// Returns nil if no gradient has been set since the last ZeroGrad.
func (p *Parameter) Grad() []float32 {
	return p.grad
}

// SetGrad sets the gradient.
//
// Returns an error if the gradient length differs from the parameter length.
func (p *Parameter) SetGrad(grad []float32) error {
	if len(grad) != len(p.data) {
		return fmt.Errorf("gradient length %d does not match parameter %q length %d",
			len(grad), p.name, len(p.data))
	}
	p.grad = grad
	return nil
}

// ZeroGrad clears the gradient.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
