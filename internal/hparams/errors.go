package hparams

import "errors"

// Sentinel errors for the hparams package.
// Use errors.Is to check: errors.Is(err, hparams.ErrUnknownAlgorithm)
var (
	ErrMissingKey        = errors.New("hparams: missing required key")
	ErrUnknownAlgorithm  = errors.New("hparams: unknown algorithm")
	ErrInvalidParameters = errors.New("hparams: invalid parameters")
	ErrTypeMismatch      = errors.New("hparams: type mismatch")
	ErrUntrustedTag      = errors.New("hparams: untrusted YAML tag")
)
