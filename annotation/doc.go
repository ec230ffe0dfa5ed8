// Package annotation describes declarative metadata attached to data-model
// types and the providers that discover it.
//
// A metadata Item is a (Kind, Payload) pair. Items are discovered per class
// (a named struct type) and per member (an exported field). The set of kinds
// is open: a KindRegistry maps each kind to a decoder for its payload, and
// applications may register their own kinds.
//
// # Struct tags
//
// The reflect and source providers read metadata from a struct tag (key
// "form" by default). The tag holds a YAML flow sequence without its
// brackets; every entry is either "kind: value" or a bare boolean kind:
//
//	type Signup struct {
//		_ struct{} `form:"name: signup, attributes: {class: signup-form}"`
//
//		Username string `form:"required, validator: {name: StringLength, options: {min: 3}}"`
//		Password string `form:"required, attributes: {type: password, label: 'Enter your password'}"`
//		Address  Address `form:"composed_object, options: {label: Address}"`
//	}
//
// Blank fields carry class-level metadata. Embedded structs are ancestors:
// their members and class metadata are merged after the embedding type's own.
//
// # Legacy shape
//
// Older metadata declared several composed objects, filters, validators or
// hydrators with one item carrying a list. Such items decode to a Legacy
// payload so that builders can reject them explicitly.
package annotation
