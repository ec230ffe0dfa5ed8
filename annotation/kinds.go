package annotation

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// Decoder turns the YAML node of one metadata entry into a payload.
// node is nil for a bare entry ("required" instead of "required: true").
type Decoder func(node *yaml.Node) (any, error)

// ErrKindRegistered is returned when a kind is registered twice.
var ErrKindRegistered = errors.New("annotation: kind already registered")

// KindRegistry maps metadata kinds to payload decoders.
// It is safe for concurrent use.
type KindRegistry struct {
	mu       sync.RWMutex
	decoders map[Kind]Decoder
}

// NewKindRegistry returns an empty registry.
func NewKindRegistry() *KindRegistry {
	return &KindRegistry{decoders: make(map[Kind]Decoder)}
}

// DefaultKinds returns a fresh registry holding every built-in kind.
func DefaultKinds() *KindRegistry {
	r := NewKindRegistry()

	for kind, dec := range builtinDecoders {
		r.decoders[kind] = dec
	}

	return r
}

var builtinDecoders = map[Kind]Decoder{
	KindName:            decodeString,
	KindType:            decodeString,
	KindErrorMessage:    decodeString,
	KindObject:          decodeString,
	KindAttributes:      decodeValues,
	KindOptions:         decodeValues,
	KindFlags:           decodeFlags,
	KindRequired:        decodeBool,
	KindAllowEmpty:      decodeBool,
	KindContinueIfEmpty: decodeBool,
	KindNoInput:         decodeBool,
	KindExclude:         decodeExclude,
	KindComposedObject:  legacyAware(KindComposedObject, decodeComposedObject),
	KindFilter:          legacyAware(KindFilter, decodeFilter),
	KindValidator:       legacyAware(KindValidator, decodeValidator),
	KindHydrator:        legacyAware(KindHydrator, decodeHydrator),
	KindInput:           decodeInputOverride,
	KindInputFilter:     decodeInputFilterOverride,
	KindValidationGroup: decodeValidationGroup,
}

// Register adds a decoder for kind.
func (r *KindRegistry) Register(kind Kind, dec Decoder) error {
	if dec == nil {
		return fmt.Errorf("annotation: nil decoder for kind %q", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.decoders[kind]; ok {
		return fmt.Errorf("%w: %q", ErrKindRegistered, kind)
	}

	r.decoders[kind] = dec

	return nil
}

// Known reports whether kind has a registered decoder.
func (r *KindRegistry) Known(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.decoders[kind]

	return ok
}

// Kinds returns the registered kinds in lexical order.
func (r *KindRegistry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.decoders))
	for k := range r.decoders {
		kinds = append(kinds, k)
	}

	slices.Sort(kinds)

	return kinds
}

// Decode builds an item of the given kind from node. Unregistered kinds are
// decoded generically so that callers can report them.
func (r *KindRegistry) Decode(kind Kind, node *yaml.Node) (Item, error) {
	r.mu.RLock()
	dec, ok := r.decoders[kind]
	r.mu.RUnlock()

	if !ok {
		dec = decodeAny
	}

	payload, err := dec(node)
	if err != nil {
		return Item{}, fmt.Errorf("decode %q: %w", kind, err)
	}

	return Item{Kind: kind, Payload: payload}, nil
}

func legacyAware(kind Kind, dec Decoder) Decoder {
	return func(node *yaml.Node) (any, error) {
		if node == nil || node.Kind != yaml.SequenceNode {
			return dec(node)
		}

		var entries []any
		if err := node.Decode(&entries); err != nil {
			return nil, err
		}

		return Legacy{Kind: kind, Entries: entries}, nil
	}
}

func decodeAny(node *yaml.Node) (any, error) {
	if node == nil {
		return true, nil
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}

	return v, nil
}

func decodeString(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, errors.New("value required")
	}

	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("expected a scalar at line %d", node.Line)
	}

	return node.Value, nil
}

func decodeBool(node *yaml.Node) (any, error) {
	if node == nil {
		return true, nil
	}

	var v bool
	if err := node.Decode(&v); err != nil {
		return nil, err
	}

	return v, nil
}

func decodeInt(node *yaml.Node) (*int, error) {
	var v int
	if err := node.Decode(&v); err != nil {
		return nil, err
	}

	return &v, nil
}

func decodeStrings(node *yaml.Node) ([]string, error) {
	if node.Kind == yaml.ScalarNode {
		return []string{node.Value}, nil
	}

	var v []string
	if err := node.Decode(&v); err != nil {
		return nil, err
	}

	return v, nil
}

// decodeValues keeps the key order of a YAML mapping.
func decodeValues(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, errors.New("value required")
	}

	return valuesOf(node)
}

func valuesOf(node *yaml.Node) (*Values, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping at line %d", node.Line)
	}

	out := NewValues()

	for i := 0; i+1 < len(node.Content); i += 2 {
		var v any
		if err := node.Content[i+1].Decode(&v); err != nil {
			return nil, err
		}

		out.Set(node.Content[i].Value, v)
	}

	return out, nil
}

// eachPair visits the key/value pairs of a mapping node.
func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping at line %d", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}

	return nil
}

func decodeFlags(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, errors.New("value required")
	}

	var f Flags

	err := eachPair(node, func(key string, value *yaml.Node) error {
		switch key {
		case "priority":
			p, err := decodeInt(value)
			if err != nil {
				return fmt.Errorf("priority: %w", err)
			}

			f.Priority = p
		case "required":
			var b bool
			if err := value.Decode(&b); err != nil {
				return fmt.Errorf("required: %w", err)
			}

			f.Required = &b
		default:
			var v any
			if err := value.Decode(&v); err != nil {
				return err
			}

			if f.Extra == nil {
				f.Extra = NewValues()
			}

			f.Extra.Set(key, v)
		}

		return nil
	})

	return f, err
}

func decodeExclude(node *yaml.Node) (any, error) {
	if node == nil {
		return Exclude{}, nil
	}

	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!bool" {
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}

		if !b {
			return nil, errors.New("exclude accepts true or a list of member names")
		}

		return Exclude{}, nil
	}

	fields, err := decodeStrings(node)
	if err != nil {
		return nil, err
	}

	return Exclude{Fields: fields}, nil
}

func decodeComposedObject(node *yaml.Node) (any, error) {
	if node == nil {
		return ComposedObject{}, nil
	}

	if node.Kind == yaml.ScalarNode {
		return ComposedObject{Target: node.Value}, nil
	}

	var c ComposedObject

	err := eachPair(node, func(key string, value *yaml.Node) error {
		switch key {
		case "target_object", "target":
			c.Target = value.Value
		case "is_collection":
			return value.Decode(&c.IsCollection)
		case "options":
			opts, err := valuesOf(value)
			if err != nil {
				return err
			}

			c.Options = opts
		default:
			return fmt.Errorf("unknown composed_object key %q", key)
		}

		return nil
	})

	return c, err
}

func decodeFilter(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, errors.New("value required")
	}

	if node.Kind == yaml.ScalarNode {
		return Filter{Name: node.Value}, nil
	}

	var f Filter

	err := eachPair(node, func(key string, value *yaml.Node) error {
		switch key {
		case "name":
			f.Name = value.Value
		case "options":
			opts, err := valuesOf(value)
			if err != nil {
				return err
			}

			f.Options = opts
		case "priority":
			p, err := decodeInt(value)
			if err != nil {
				return err
			}

			f.Priority = p
		default:
			return fmt.Errorf("unknown filter key %q", key)
		}

		return nil
	})
	if err == nil && f.Name == "" {
		err = errors.New("filter name required")
	}

	return f, err
}

func decodeValidator(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, errors.New("value required")
	}

	if node.Kind == yaml.ScalarNode {
		return Validator{Name: node.Value}, nil
	}

	var v Validator

	err := eachPair(node, func(key string, value *yaml.Node) error {
		switch key {
		case "name":
			v.Name = value.Value
		case "options":
			opts, err := valuesOf(value)
			if err != nil {
				return err
			}

			v.Options = opts
		case "break_chain_on_failure":
			return value.Decode(&v.BreakChainOnFailure)
		case "priority":
			p, err := decodeInt(value)
			if err != nil {
				return err
			}

			v.Priority = p
		default:
			return fmt.Errorf("unknown validator key %q", key)
		}

		return nil
	})
	if err == nil && v.Name == "" {
		err = errors.New("validator name required")
	}

	return v, err
}

func decodeHydrator(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, errors.New("value required")
	}

	if node.Kind == yaml.ScalarNode {
		return Hydrator{Type: node.Value}, nil
	}

	var h Hydrator

	err := eachPair(node, func(key string, value *yaml.Node) error {
		switch key {
		case "type":
			h.Type = value.Value
		case "options":
			opts, err := valuesOf(value)
			if err != nil {
				return err
			}

			h.Options = opts
		default:
			return fmt.Errorf("unknown hydrator key %q", key)
		}

		return nil
	})

	return h, err
}

func decodeTypeName(node *yaml.Node) (string, error) {
	if node == nil {
		return "", errors.New("value required")
	}

	if node.Kind == yaml.ScalarNode {
		return node.Value, nil
	}

	var typ string

	err := eachPair(node, func(key string, value *yaml.Node) error {
		if key != "type" {
			return fmt.Errorf("unknown key %q", key)
		}

		typ = value.Value

		return nil
	})

	return typ, err
}

func decodeInputOverride(node *yaml.Node) (any, error) {
	typ, err := decodeTypeName(node)

	return InputOverride{Type: typ}, err
}

func decodeInputFilterOverride(node *yaml.Node) (any, error) {
	typ, err := decodeTypeName(node)

	return InputFilterOverride{Type: typ}, err
}

func decodeValidationGroup(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, errors.New("value required")
	}

	fields, err := decodeStrings(node)

	return ValidationGroup{Fields: fields}, err
}
