package annotation

import (
	"fmt"
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the meaning of a metadata item.
type Kind string

// Built-in kinds.
const (
	KindName            Kind = "name"
	KindType            Kind = "type"
	KindAttributes      Kind = "attributes"
	KindOptions         Kind = "options"
	KindFlags           Kind = "flags"
	KindRequired        Kind = "required"
	KindAllowEmpty      Kind = "allow_empty"
	KindContinueIfEmpty Kind = "continue_if_empty"
	KindErrorMessage    Kind = "error_message"
	KindExclude         Kind = "exclude"
	KindNoInput         Kind = "no_input"
	KindComposedObject  Kind = "composed_object"
	KindInputFilter     Kind = "input_filter"
	KindInput           Kind = "input"
	KindFilter          Kind = "filter"
	KindValidator       Kind = "validator"
	KindHydrator        Kind = "hydrator"
	KindValidationGroup Kind = "validation_group"
	KindObject          Kind = "object"
)

// Item is one declarative marker attached to a class or a member.
type Item struct {
	Kind    Kind
	Payload any
}

// String returns a compact description used in logs and diagnostics.
func (it Item) String() string {
	return fmt.Sprintf("%s(%v)", it.Kind, it.Payload)
}

// Values is an insertion-ordered string-keyed map used for attributes,
// options and other map-shaped payloads.
type Values = orderedmap.OrderedMap[string, any]

// NewValues builds Values from alternating keys and values.
// It panics when a key is not a string or a value is missing.
func NewValues(kv ...any) *Values {
	if len(kv)%2 != 0 {
		panic("annotation: NewValues requires key/value pairs")
	}

	v := orderedmap.New[string, any]()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("annotation: NewValues key %v is not a string", kv[i]))
		}

		v.Set(key, kv[i+1])
	}

	return v
}

// MergeValues writes every entry of src into dst, last write wins per key.
// Keys already in dst keep their position. A nil dst is allocated.
func MergeValues(dst, src *Values) *Values {
	if dst == nil {
		dst = orderedmap.New[string, any]()
	}

	if src == nil {
		return dst
	}

	for p := src.Oldest(); p != nil; p = p.Next() {
		dst.Set(p.Key, p.Value)
	}

	return dst
}

// CloneValues returns a shallow copy of v, or nil.
func CloneValues(v *Values) *Values {
	if v == nil {
		return nil
	}

	return MergeValues(nil, v)
}

// ValuesMap converts v into a plain map.
func ValuesMap(v *Values) map[string]any {
	if v == nil {
		return map[string]any{}
	}

	out := make(map[string]any, v.Len())

	for p := v.Oldest(); p != nil; p = p.Next() {
		out[p.Key] = p.Value
	}

	return out
}

// Flags carries the "flags" payload. Unknown flags are kept in Extra.
type Flags struct {
	Priority *int
	Required *bool
	Extra    *Values
}

// Exclude marks a member as excluded. At class level Fields lists the
// excluded members by name.
type Exclude struct {
	Fields []string
}

// ComposedObject declares that a member is built from another class.
// An empty Target means the member's own struct type.
type ComposedObject struct {
	Target       string
	IsCollection bool
	Options      *Values
}

// Filter declares one filter for a member's input.
type Filter struct {
	Name     string
	Options  *Values
	Priority *int
}

// Validator declares one validator for a member's input.
type Validator struct {
	Name                string
	Options             *Values
	BreakChainOnFailure bool
	Priority            *int
}

// Hydrator selects the hydrator of a form or fieldset.
type Hydrator struct {
	Type    string
	Options *Values
}

// InputOverride selects a custom input type.
type InputOverride struct {
	Type string
}

// InputFilterOverride selects a custom input filter type.
type InputFilterOverride struct {
	Type string
}

// ValidationGroup restricts validation to the named members.
type ValidationGroup struct {
	Fields []string
}

// Legacy is the deprecated single-aggregate shape: one item carrying a list
// of sub-specifications.
type Legacy struct {
	Kind    Kind
	Entries []any
}

// legacySensitive lists the kinds whose list-shaped payload is the legacy shape.
var legacySensitive = map[Kind]bool{
	KindComposedObject: true,
	KindFilter:         true,
	KindValidator:      true,
	KindHydrator:       true,
}

// IsLegacySensitive reports whether kind had a deprecated list shape.
func IsLegacySensitive(kind Kind) bool {
	return legacySensitive[kind]
}

// LegacyShape reports whether it uses the deprecated single-aggregate shape.
// Programmatic items qualify when a legacy-sensitive kind carries a slice.
func LegacyShape(it Item) (Legacy, bool) {
	if l, ok := it.Payload.(Legacy); ok {
		return l, true
	}

	if l, ok := it.Payload.(*Legacy); ok && l != nil {
		return *l, true
	}

	if !legacySensitive[it.Kind] || it.Payload == nil {
		return Legacy{}, false
	}

	rv := reflect.ValueOf(it.Payload)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Legacy{}, false
	}

	entries := make([]any, rv.Len())
	for i := range rv.Len() {
		entries[i] = rv.Index(i).Interface()
	}

	return Legacy{Kind: it.Kind, Entries: entries}, true
}

// NewName returns a "name" item.
func NewName(name string) Item { return Item{Kind: KindName, Payload: name} }

// NewType returns a "type" item.
func NewType(typ string) Item { return Item{Kind: KindType, Payload: typ} }

// NewAttributes returns an "attributes" item from alternating keys and values.
func NewAttributes(kv ...any) Item { return Item{Kind: KindAttributes, Payload: NewValues(kv...)} }

// NewOptions returns an "options" item from alternating keys and values.
func NewOptions(kv ...any) Item { return Item{Kind: KindOptions, Payload: NewValues(kv...)} }

// NewFlags returns a "flags" item carrying a priority.
func NewFlags(priority int) Item {
	return Item{Kind: KindFlags, Payload: Flags{Priority: &priority}}
}

// NewRequired returns a "required" item.
func NewRequired(v bool) Item { return Item{Kind: KindRequired, Payload: v} }

// NewAllowEmpty returns an "allow_empty" item.
func NewAllowEmpty(v bool) Item { return Item{Kind: KindAllowEmpty, Payload: v} }

// NewContinueIfEmpty returns a "continue_if_empty" item.
func NewContinueIfEmpty(v bool) Item { return Item{Kind: KindContinueIfEmpty, Payload: v} }

// NewErrorMessage returns an "error_message" item.
func NewErrorMessage(msg string) Item { return Item{Kind: KindErrorMessage, Payload: msg} }

// NewExclude returns an "exclude" item. Fields is only meaningful at class level.
func NewExclude(fields ...string) Item {
	return Item{Kind: KindExclude, Payload: Exclude{Fields: fields}}
}

// NewNoInput returns a "no_input" item.
func NewNoInput() Item { return Item{Kind: KindNoInput, Payload: true} }

// NewComposedObject returns a "composed_object" item.
func NewComposedObject(target string, collection bool, kv ...any) Item {
	return Item{Kind: KindComposedObject, Payload: ComposedObject{
		Target:       target,
		IsCollection: collection,
		Options:      NewValues(kv...),
	}}
}

// NewFilter returns a "filter" item.
func NewFilter(name string, kv ...any) Item {
	return Item{Kind: KindFilter, Payload: Filter{Name: name, Options: NewValues(kv...)}}
}

// NewValidator returns a "validator" item.
func NewValidator(name string, kv ...any) Item {
	return Item{Kind: KindValidator, Payload: Validator{Name: name, Options: NewValues(kv...)}}
}

// NewHydrator returns a "hydrator" item.
func NewHydrator(typ string, kv ...any) Item {
	return Item{Kind: KindHydrator, Payload: Hydrator{Type: typ, Options: NewValues(kv...)}}
}

// NewInput returns an "input" item selecting a custom input type.
func NewInput(typ string) Item { return Item{Kind: KindInput, Payload: InputOverride{Type: typ}} }

// NewInputFilter returns an "input_filter" item selecting a custom input filter type.
func NewInputFilter(typ string) Item {
	return Item{Kind: KindInputFilter, Payload: InputFilterOverride{Type: typ}}
}

// NewValidationGroup returns a "validation_group" item.
func NewValidationGroup(fields ...string) Item {
	return Item{Kind: KindValidationGroup, Payload: ValidationGroup{Fields: fields}}
}

// NewObject returns an "object" item naming the class bound to a fieldset.
func NewObject(class string) Item { return Item{Kind: KindObject, Payload: class} }
