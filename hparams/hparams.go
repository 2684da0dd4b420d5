// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package hparams

import (
	"log/slog"

	"github.com/born-ml/hparams/internal/hparams"
	"github.com/born-ml/hparams/internal/optim"
)

// Document is a parsed configuration document (opt_method + opt_params).
type Document = hparams.Document

// Loader turns configuration documents into optimizers.
type Loader = hparams.Loader

// Option configures a Loader.
type Option = hparams.Option

// Registry maps algorithm names and aliases to entries.
type Registry = hparams.Registry

// Entry is one algorithm in a Registry.
type Entry = hparams.Entry

// Factory builds an optimizer from validated arguments.
type Factory = hparams.Factory

// ParamSpec declares one constructor parameter of an algorithm.
type ParamSpec = hparams.ParamSpec

// Args holds validated constructor arguments passed to a Factory.
type Args = hparams.Args

// Kind is the declared type of a constructor parameter.
type Kind = hparams.Kind

// Parameter kinds.
const (
	Float  = hparams.Float
	Bool   = hparams.Bool
	String = hparams.String
)

// TrustLevel controls which YAML tags a document may carry.
type TrustLevel = hparams.TrustLevel

// Trust levels.
const (
	TrustSafe = hparams.TrustSafe
	TrustCore = hparams.TrustCore
)

// Document keys.
const (
	KeyMethod = hparams.KeyMethod
	KeyParams = hparams.KeyParams
)

// Errors. Use errors.Is to check.
var (
	ErrMissingKey        = hparams.ErrMissingKey
	ErrUnknownAlgorithm  = hparams.ErrUnknownAlgorithm
	ErrInvalidParameters = hparams.ErrInvalidParameters
	ErrTypeMismatch      = hparams.ErrTypeMismatch
	ErrUntrustedTag      = hparams.ErrUntrustedTag
)

// New creates a Loader.
//
// Example:
//
//	loader := hparams.New(
//	    hparams.WithLogger(logger),
//	    hparams.WithTrust(hparams.TrustSafe),
//	)
//	optimizer, err := loader.Load("hparams.yaml")
func New(opts ...Option) *Loader {
	return hparams.New(opts...)
}

// WithRegistry sets the registry used to resolve algorithm names.
func WithRegistry(r *Registry) Option {
	return hparams.WithRegistry(r)
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return hparams.WithLogger(logger)
}

// WithTrust sets the parser trust level.
func WithTrust(trust TrustLevel) Option {
	return hparams.WithTrust(trust)
}

// NewRegistry builds a registry from entries.
func NewRegistry(entries ...Entry) (*Registry, error) {
	return hparams.NewRegistry(entries...)
}

// DefaultRegistry returns the registry of built-in algorithms.
func DefaultRegistry() *Registry {
	return hparams.DefaultRegistry()
}

// Load reads the YAML document at path and returns the optimizer it describes.
//
// Example:
//
//	// hparams.yaml:
//	//   opt_method: GradientDescent
//	//   opt_params:
//	//     learning_rate: 0.01
//	optimizer, err := hparams.Load("hparams.yaml")
func Load(path string) (optim.Optimizer, error) {
	return hparams.Load(path)
}

// Create constructs the named algorithm with params, without a document.
func Create(method string, params map[string]any) (optim.Optimizer, error) {
	return hparams.Create(method, params)
}
