package hparams

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/born-ml/hparams/internal/optim"
)

// Factory builds an optimizer from validated arguments.
//
// Errors returned by a factory are reported as ErrInvalidParameters.
type Factory func(args Args) (optim.Optimizer, error)

// Entry is one algorithm in a Registry.
type Entry struct {
	Name    string      // Canonical name (e.g., "Adam")
	Aliases []string    // Alternative names (e.g., "AdamOptimizer")
	Params  []ParamSpec // Declared constructor parameters
	New     Factory     // Constructor
}

// Registry maps algorithm names and aliases to entries.
//
// A Registry is immutable after NewRegistry returns and safe for concurrent use.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// NewRegistry builds a registry from entries.
//
// Returns an error if an entry has no name or factory, or if two entries
// share a name or alias.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int),
	}

	for _, e := range entries {
		if e.Name == "" {
			return nil, errors.New("registry entry has no name")
		}
		if e.New == nil {
			return nil, fmt.Errorf("registry entry %q has no factory", e.Name)
		}

		pos := len(r.entries)
		for _, name := range append([]string{e.Name}, e.Aliases...) {
			if prev, ok := r.index[name]; ok {
				owner := e.Name
				if prev < len(r.entries) {
					owner = r.entries[prev].Name
				}
				return nil, fmt.Errorf("registry name %q of %q already used by %q",
					name, e.Name, owner)
			}
			r.index[name] = pos
		}

		e.Aliases = slices.Clone(e.Aliases)
		e.Params = slices.Clone(e.Params)
		r.entries = append(r.entries, e)
	}

	return r, nil
}

// Lookup returns the entry registered under name (canonical or alias).
func (r *Registry) Lookup(name string) (Entry, bool) {
	pos, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[pos], true
}

// Names returns the sorted canonical names.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	slices.Sort(names)
	return names
}

// Entries returns all entries sorted by canonical name.
func (r *Registry) Entries() []Entry {
	entries := slices.Clone(r.entries)
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}
