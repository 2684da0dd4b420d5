// Package hparams builds optimizers from YAML hyperparameter documents.
//
// A document names an algorithm and its constructor arguments:
//
//	opt_method: GradientDescent
//	opt_params:
//	  learning_rate: 0.01
//
// Loading runs a fixed pipeline: Parse reads the document, Resolve looks the
// algorithm up in a Registry, and Construct validates the arguments against
// the algorithm's declared parameters before calling its factory.
package hparams

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/born-ml/hparams/internal/optim"
)

// Loader turns configuration documents into optimizers.
//
// A Loader holds no mutable state and is safe for concurrent use.
type Loader struct {
	registry *Registry
	logger   *slog.Logger
	trust    TrustLevel
}

// Option configures a Loader.
type Option func(*Loader)

// WithRegistry sets the registry used by Resolve (default: DefaultRegistry()).
func WithRegistry(r *Registry) Option {
	return func(l *Loader) {
		l.registry = r
	}
}

// WithLogger sets the logger (default: slog.Default() at call time).
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithTrust sets the parser trust level (default: TrustSafe).
func WithTrust(trust TrustLevel) Option {
	return func(l *Loader) {
		l.trust = trust
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		registry: DefaultRegistry(),
		trust:    TrustSafe,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) log() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return slog.Default()
}

// Parse reads and parses the document at path.
//
// The file is closed before Parse returns. Returns ErrMissingKey if
// opt_method or opt_params is absent.
func (l *Loader) Parse(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	doc, err := l.Decode(f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseBytes parses a document held in memory.
func (l *Loader) ParseBytes(data []byte) (Document, error) {
	return l.Decode(bytes.NewReader(data))
}

// Decode parses the first YAML document read from r.
func (l *Loader) Decode(r io.Reader) (Document, error) {
	return decodeDocument(r, l.trust, l.log())
}

// Resolve looks up method by canonical name or alias.
//
// Returns ErrUnknownAlgorithm if the registry has no such entry.
func (l *Loader) Resolve(method string) (Entry, error) {
	entry, ok := l.registry.Lookup(method)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, method)
	}
	if entry.Name != method {
		l.log().Debug("resolved alias", "alias", method, "algorithm", entry.Name)
	}
	return entry, nil
}

// Construct validates params against entry's declared parameters and calls
// its factory.
//
// Returns ErrInvalidParameters for unsupported or missing keys and for
// values the algorithm rejects, and ErrTypeMismatch for values of the wrong
// type.
func (l *Loader) Construct(entry Entry, params map[string]any) (optim.Optimizer, error) {
	args, err := bindArgs(entry.Params, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry.Name, err)
	}

	optimizer, err := entry.New(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidParameters, entry.Name, err)
	}

	l.log().Debug("constructed optimizer",
		"algorithm", entry.Name,
		"name", optimizer.Name(),
		"learning_rate", optimizer.GetLR(),
	)
	return optimizer, nil
}

// Load reads the document at path and returns the optimizer it describes.
func (l *Loader) Load(path string) (optim.Optimizer, error) {
	doc, err := l.Parse(path)
	if err != nil {
		return nil, err
	}

	optimizer, err := l.Create(doc.Method, doc.Params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return optimizer, nil
}

// Create resolves method and constructs it with params, without a document.
func (l *Loader) Create(method string, params map[string]any) (optim.Optimizer, error) {
	entry, err := l.Resolve(method)
	if err != nil {
		return nil, err
	}
	return l.Construct(entry, params)
}

// Describe returns the declared constructor parameters of method.
func (l *Loader) Describe(method string) ([]ParamSpec, error) {
	entry, err := l.Resolve(method)
	if err != nil {
		return nil, err
	}
	return append([]ParamSpec(nil), entry.Params...), nil
}

// Algorithms returns the sorted canonical names known to the loader.
func (l *Loader) Algorithms() []string {
	return l.registry.Names()
}

// Load reads the document at path using a default Loader.
func Load(path string) (optim.Optimizer, error) {
	return New().Load(path)
}

// Create constructs method with params using a default Loader.
func Create(method string, params map[string]any) (optim.Optimizer, error) {
	return New().Create(method, params)
}
