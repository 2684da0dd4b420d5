package hparams

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// Kind is the declared type of a constructor parameter.
type Kind int

// Supported parameter kinds.
const (
	Float Kind = iota
	Bool
	String
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParamSpec declares one constructor parameter of an algorithm.
type ParamSpec struct {
	Name     string // Key in opt_params (e.g., "learning_rate")
	Kind     Kind   // Declared value type
	Required bool   // Whether the key must be present
	Default  any    // Value used when absent; float64, bool or string matching Kind
	Doc      string // One-line description
}

// Args holds validated constructor arguments.
//
// Every declared parameter is present: either the supplied value coerced to
// its Kind, or the declared default. Required parameters have no default.
type Args struct {
	values map[string]any
}

// Float returns the named float argument.
func (a Args) Float(name string) float64 {
	v, _ := a.values[name].(float64)
	return v
}

// Float32 returns the named float argument narrowed to float32.
func (a Args) Float32(name string) float32 {
	return float32(a.Float(name))
}

// Bool returns the named bool argument.
func (a Args) Bool(name string) bool {
	v, _ := a.values[name].(bool)
	return v
}

// String returns the named string argument.
func (a Args) String(name string) string {
	v, _ := a.values[name].(string)
	return v
}

// Map returns a copy of all arguments.
func (a Args) Map() map[string]any {
	return maps.Clone(a.values)
}

// bindArgs validates raw against specs and returns typed arguments.
//
// Checks run in order: unsupported keys, missing required keys, value types,
// float32 range.
// Null values count as absent.
func bindArgs(specs []ParamSpec, raw map[string]any) (Args, error) {
	declared := make(map[string]ParamSpec, len(specs))
	for _, spec := range specs {
		declared[spec.Name] = spec
	}

	var unsupported []string
	for name := range raw {
		if _, ok := declared[name]; !ok {
			unsupported = append(unsupported, name)
		}
	}
	if len(unsupported) > 0 {
		slices.Sort(unsupported)
		return Args{}, fmt.Errorf("%w: unsupported parameter(s) %s",
			ErrInvalidParameters, strings.Join(unsupported, ", "))
	}

	var missing []string
	for _, spec := range specs {
		if spec.Required && raw[spec.Name] == nil {
			missing = append(missing, spec.Name)
		}
	}
	if len(missing) > 0 {
		return Args{}, fmt.Errorf("%w: missing required parameter(s) %s",
			ErrInvalidParameters, strings.Join(missing, ", "))
	}

	values := make(map[string]any, len(specs))
	for _, spec := range specs {
		v := raw[spec.Name]
		if v == nil {
			values[spec.Name] = spec.Default
			continue
		}

		coerced, err := coerce(spec.Kind, v)
		if err != nil {
			return Args{}, fmt.Errorf("%w: parameter %q: %v", ErrTypeMismatch, spec.Name, err)
		}
		// Factories narrow floats to float32; larger magnitudes would become ±Inf.
		if f, ok := coerced.(float64); ok && math.Abs(f) > math.MaxFloat32 {
			return Args{}, fmt.Errorf("%w: parameter %q: %g exceeds float32 range",
				ErrInvalidParameters, spec.Name, f)
		}
		values[spec.Name] = coerced
	}

	return Args{values: values}, nil
}

// coerce converts a decoded YAML (or caller-supplied Go) value to kind.
//
// Float accepts any integer or float type. Bool and String accept only
// their own type, so "0.01" is not a float and 1 is not a bool.
func coerce(kind Kind, v any) (any, error) {
	switch kind {
	case Float:
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("expected float, got %s", describe(v))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("expected finite float, got %v", f)
		}
		return f, nil

	case Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %s", describe(v))
		}
		return b, nil

	case String:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %s", describe(v))
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
}

// toFloat widens numeric values to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// describe names the type of v for error messages.
func describe(v any) string {
	switch v.(type) {
	case string:
		return fmt.Sprintf("string %q", v)
	case bool:
		return fmt.Sprintf("bool %v", v)
	case map[string]any:
		return "mapping"
	case []any:
		return "sequence"
	default:
		return fmt.Sprintf("%T", v)
	}
}
