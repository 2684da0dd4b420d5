package hparams

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Top-level keys of a configuration document.
const (
	KeyMethod = "opt_method"
	KeyParams = "opt_params"
)

// Document is a parsed configuration document.
//
//	opt_method: Adam
//	opt_params:
//	  learning_rate: 0.001
//	  beta1: 0.9
type Document struct {
	Method string         // Algorithm name (opt_method)
	Params map[string]any // Constructor arguments (opt_params)
}

// TrustLevel controls which YAML tags a document may carry.
type TrustLevel int

const (
	// TrustSafe accepts only the YAML core schema tags and rejects every
	// explicit application tag (!!python/object, !custom, ...).
	TrustSafe TrustLevel = iota

	// TrustCore accepts any tag and leaves resolution to the YAML decoder.
	// Tags never construct objects; unknown ones decode as plain values.
	TrustCore
)

// String returns the trust level name.
func (l TrustLevel) String() string {
	switch l {
	case TrustSafe:
		return "safe"
	case TrustCore:
		return "core"
	default:
		return fmt.Sprintf("TrustLevel(%d)", int(l))
	}
}

// safeTags are the short tags accepted under TrustSafe.
var safeTags = map[string]bool{
	"":            true, // document node
	"!!str":       true,
	"!!int":       true,
	"!!float":     true,
	"!!bool":      true,
	"!!null":      true,
	"!!map":       true,
	"!!seq":       true,
	"!!merge":     true,
	"!!timestamp": true,
	"!!binary":    true,
}

// checkTags walks the node tree and rejects tags outside the core schema.
func checkTags(node *yaml.Node) error {
	if node.Kind != yaml.AliasNode {
		if tag := node.ShortTag(); !safeTags[tag] {
			return fmt.Errorf("%w: %s at line %d", ErrUntrustedTag, tag, node.Line)
		}
	}
	for _, child := range node.Content {
		if err := checkTags(child); err != nil {
			return err
		}
	}
	return nil
}

// decodeDocument reads one YAML document from r and extracts the
// opt_method and opt_params keys.
func decodeDocument(r io.Reader, trust TrustLevel, logger *slog.Logger) (Document, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("%w: %s (empty document)", ErrMissingKey, KeyMethod)
		}
		return Document{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if trust == TrustSafe {
		if err := checkTags(&root); err != nil {
			return Document{}, err
		}
	}

	top := &root
	if top.Kind == yaml.DocumentNode && len(top.Content) > 0 {
		top = resolveAlias(top.Content[0])
	}
	if isNull(top) {
		return Document{}, fmt.Errorf("%w: %s (empty document)", ErrMissingKey, KeyMethod)
	}
	if top.Kind != yaml.MappingNode {
		return Document{}, fmt.Errorf("%w: document root must be a mapping, got %s",
			ErrTypeMismatch, top.ShortTag())
	}

	entries, err := mappingEntries(top)
	if err != nil {
		return Document{}, err
	}

	var (
		doc        Document
		haveMethod bool
		haveParams bool
	)
	for _, e := range entries {
		key, value := e.key, e.value

		switch key.Value {
		case KeyMethod:
			if isNull(value) {
				continue
			}
			if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!str" {
				return Document{}, fmt.Errorf("%w: %s must be a string, got %s",
					ErrTypeMismatch, KeyMethod, value.ShortTag())
			}
			doc.Method = value.Value
			haveMethod = true

		case KeyParams:
			if isNull(value) {
				continue
			}
			if value.Kind != yaml.MappingNode {
				return Document{}, fmt.Errorf("%w: %s must be a mapping, got %s",
					ErrTypeMismatch, KeyParams, value.ShortTag())
			}
			params, err := decodeParams(value)
			if err != nil {
				return Document{}, err
			}
			doc.Params = params
			haveParams = true

		default:
			logger.Debug("ignoring unknown key", "key", key.Value, "line", key.Line)
		}
	}

	if !haveMethod {
		return Document{}, fmt.Errorf("%w: %s not found", ErrMissingKey, KeyMethod)
	}
	if !haveParams {
		return Document{}, fmt.Errorf("%w: %s not found", ErrMissingKey, KeyParams)
	}

	return doc, nil
}

// decodeParams decodes the opt_params mapping value by value.
//
// A key given twice is ErrInvalidParameters; merged keys may be overridden.
func decodeParams(node *yaml.Node) (map[string]any, error) {
	entries, err := mappingEntries(node)
	if err != nil {
		if errors.Is(err, errDuplicateKey) {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidParameters, KeyParams, err)
		}
		return nil, err
	}

	params := make(map[string]any, len(entries))
	for _, e := range entries {
		var v any
		if err := e.value.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrTypeMismatch, KeyParams, e.key.Value, err)
		}
		params[e.key.Value] = v
	}
	return params, nil
}

var errDuplicateKey = errors.New("duplicate key")

type entry struct {
	key   *yaml.Node
	value *yaml.Node // alias resolved
}

// mappingEntries returns the key/value pairs of a mapping node with merge
// keys (<<) expanded. Explicit keys override merged ones, and among merged
// mappings the first one listed wins, as in the YAML merge key spec.
func mappingEntries(node *yaml.Node) ([]entry, error) {
	var explicit, merged []entry
	seen := make(map[string]bool, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], resolveAlias(node.Content[i+1])

		if key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge" {
			sources := []*yaml.Node{value}
			if value.Kind == yaml.SequenceNode {
				sources = value.Content
			}
			for _, src := range sources {
				src = resolveAlias(src)
				if src.Kind != yaml.MappingNode {
					return nil, fmt.Errorf("%w: merge value at line %d must be a mapping, got %s",
						ErrTypeMismatch, key.Line, src.ShortTag())
				}
				sub, err := mappingEntries(src)
				if err != nil {
					return nil, err
				}
				merged = append(merged, sub...)
			}
			continue
		}

		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: key at line %d must be a scalar", ErrTypeMismatch, key.Line)
		}
		if seen[key.Value] {
			return nil, fmt.Errorf("%w %q at line %d", errDuplicateKey, key.Value, key.Line)
		}
		seen[key.Value] = true
		explicit = append(explicit, entry{key: key, value: value})
	}

	for _, e := range merged {
		if !seen[e.key.Value] {
			seen[e.key.Value] = true
			explicit = append(explicit, e)
		}
	}
	return explicit, nil
}

// resolveAlias follows alias nodes to the anchored node.
func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// isNull reports whether node is an explicit or implicit YAML null.
func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
