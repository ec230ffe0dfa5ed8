package analyze

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"

	"formspec/annotation"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// LoadGraph loads the packages matching patterns, resolved against dir or
// the working directory when dir is empty, and builds their type graph.
// Any package error, including one of a dependency, fails the load.
func LoadGraph(ctx context.Context, dir string, patterns ...string) (*Graph, error) {
	pkgs, err := packages.Load(&packages.Config{Context: ctx, Mode: loadMode, Dir: dir}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	var errs []error

	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	})

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	s := &scanner{graph: newGraph(), nodes: make(map[types.Type]*Node)}

	for _, pkg := range pkgs {
		s.graph.Packages[pkg.PkgPath] = &Package{Path: pkg.PkgPath, Name: pkg.Name}
	}

	for _, pkg := range pkgs {
		s.declare(pkg)
	}

	return s.graph, nil
}

// scanner turns go/types values into graph nodes. A node is memoized before
// its children are visited, which terminates recursive types.
type scanner struct {
	graph *Graph
	nodes map[types.Type]*Node
}

func (s *scanner) declare(pkg *packages.Package) {
	decl := s.graph.Packages[pkg.PkgPath]
	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !tn.Exported() {
			continue
		}

		ref := annotation.ClassRef{PkgPath: pkg.PkgPath, Name: name}

		n := s.node(tn.Type())
		n.Ref = ref
		s.graph.Named[ref] = n
		decl.Decls = append(decl.Decls, ref)
	}
}

func (s *scanner) node(t types.Type) *Node {
	t = types.Unalias(t)
	if n, ok := s.nodes[t]; ok {
		return n
	}

	n := &Node{Go: t}
	s.nodes[t] = n

	switch tt := t.(type) {
	case *types.Named:
		s.named(n, tt)
	case *types.Basic:
		n.Shape = ShapeScalar
	case *types.Pointer:
		n.Shape, n.Elem = ShapePointer, s.node(tt.Elem())
	case *types.Slice:
		n.Shape, n.Elem = ShapeSlice, s.node(tt.Elem())
	case *types.Array:
		n.Shape, n.Elem = ShapeArray, s.node(tt.Elem())
	case *types.Struct:
		n.Shape = ShapeStruct
		n.Fields = s.fields(tt)
	}

	return n
}

// named fills a node for a defined type. Structs of any package become
// classes, since a loaded struct may embed or compose them; other types of
// packages outside the load set stay opaque.
func (s *scanner) named(n *Node, t *types.Named) {
	obj := t.Obj()
	if obj.Pkg() == nil {
		n.Shape = ShapeForeign
		n.Ref = annotation.ClassRef{Name: obj.Name()}

		return
	}

	n.Ref = annotation.ClassRef{PkgPath: obj.Pkg().Path(), Name: obj.Name()}

	under := t.Underlying()

	if st, ok := under.(*types.Struct); ok {
		n.Shape = ShapeStruct
		s.graph.Named[n.Ref] = n
		n.Fields = s.fields(st)

		return
	}

	if _, basic := under.(*types.Basic); !basic && !s.graph.loaded(n.Ref.PkgPath) {
		n.Shape = ShapeForeign

		return
	}

	n.Shape = ShapeDefined
	n.Base = s.node(under)
}

func (s *scanner) fields(st *types.Struct) []Field {
	var out []Field

	for i := range st.NumFields() {
		v := st.Field(i)
		if !v.Exported() && v.Name() != "_" {
			continue
		}

		out = append(out, Field{
			Name:     v.Name(),
			Type:     s.node(v.Type()),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: v.Embedded(),
			Index:    i,
		})
	}

	return out
}
