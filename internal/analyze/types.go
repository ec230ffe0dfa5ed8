package analyze

import (
	"fmt"
	"go/token"
	"go/types"
	"reflect"
	"strings"

	"formspec/annotation"
	"formspec/internal/common"
	"formspec/internal/naming"
)

// Shape classifies a node of the type graph.
type Shape uint8

const (
	ShapeOther   Shape = iota // map, interface, chan, func
	ShapeScalar               // bool, numbers, string
	ShapeStruct               // struct, named or literal
	ShapePointer              // *T
	ShapeSlice                // []T
	ShapeArray                // [N]T
	ShapeDefined              // defined non-struct type, e.g. type Status string
	ShapeForeign              // non-struct type declared outside the loaded packages
)

var shapeNames = [...]string{
	ShapeOther:   common.UnknownStr,
	ShapeScalar:  "scalar",
	ShapeStruct:  "struct",
	ShapePointer: "pointer",
	ShapeSlice:   "slice",
	ShapeArray:   "array",
	ShapeDefined: "defined",
	ShapeForeign: "foreign",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}

	return common.UnknownStr
}

// Node is one type of the graph. Named types are shared between their uses,
// so a recursive struct points back at its own node.
type Node struct {
	Ref    annotation.ClassRef // zero for unnamed types
	Shape  Shape
	Elem   *Node   // pointee or element
	Base   *Node   // underlying type of a ShapeDefined node
	Fields []Field // struct fields in declaration order
	Go     types.Type
}

// Named reports whether n carries a class reference.
func (n *Node) Named() bool {
	return n != nil && n.Ref.Name != ""
}

// Class reports whether n is a named struct, the only shape that can back
// a form class.
func (n *Node) Class() bool {
	return n.Named() && n.Shape == ShapeStruct
}

// Repeated reports whether n is a slice or an array.
func (n *Node) Repeated() bool {
	return n != nil && (n.Shape == ShapeSlice || n.Shape == ShapeArray)
}

// Deref strips any number of pointers.
func (n *Node) Deref() *Node {
	for n != nil && n.Shape == ShapePointer {
		n = n.Elem
	}

	return n
}

// Field is a struct field kept by the loader: exported fields and blank
// fields, which hold class metadata.
type Field struct {
	Name     string
	Type     *Node
	Tag      reflect.StructTag
	Embedded bool
	Index    int // position in the Go struct
}

// Blank reports whether f is a "_" field.
func (f *Field) Blank() bool { return f.Name == "_" }

// Exported reports whether f is visible outside its package.
func (f *Field) Exported() bool { return token.IsExported(f.Name) }

// ElementName is the form element name of f: the json tag name when set,
// else the lowerCamel field name.
func (f *Field) ElementName() string {
	tag, _ := f.Tag.Lookup("json")
	if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
		return name
	}

	return naming.LowerCamel(f.Name)
}

// Graph is the set of named types reached from the loaded packages.
type Graph struct {
	Named    map[annotation.ClassRef]*Node
	Packages map[string]*Package
}

// Package is a loaded package and the exported types it declares.
type Package struct {
	Path  string
	Name  string
	Decls []annotation.ClassRef
}

func newGraph() *Graph {
	return &Graph{
		Named:    make(map[annotation.ClassRef]*Node),
		Packages: make(map[string]*Package),
	}
}

// Node returns the node of ref, or nil.
func (g *Graph) Node(ref annotation.ClassRef) *Node {
	return g.Named[ref]
}

// Struct returns the node of ref and fails unless it is a named struct.
func (g *Graph) Struct(ref annotation.ClassRef) (*Node, error) {
	n := g.Named[ref]

	switch {
	case n == nil:
		return nil, fmt.Errorf("type %s not found", ref)
	case n.Shape != ShapeStruct:
		return nil, fmt.Errorf("type %s is a %s, not a struct", ref, n.Shape)
	}

	return n, nil
}

// loaded reports whether path is one of the packages matched by the load
// patterns.
func (g *Graph) loaded(path string) bool {
	_, ok := g.Packages[path]

	return ok
}
