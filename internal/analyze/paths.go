package analyze

// Describe renders n as it reads in Go source, with named types qualified
// by their package name.
func Describe(n *Node) string {
	switch {
	case n == nil:
		return "<nil>"
	case n.Named():
		return n.Ref.Short()
	}

	switch n.Shape {
	case ShapePointer:
		return "*" + Describe(n.Elem)
	case ShapeSlice:
		return "[]" + Describe(n.Elem)
	case ShapeArray:
		return "[...]" + Describe(n.Elem)
	case ShapeStruct:
		return "struct{...}"
	case ShapeDefined:
		return Describe(n.Base)
	}

	if n.Go != nil {
		return n.Go.String()
	}

	return n.Shape.String()
}

// MemberPath is one member reachable from a class, with its Go type.
// Path reads like "User.Phones[].Number".
type MemberPath struct {
	Path string
	Type string
}

// MemberPaths lists the members of root and, up to maxDepth levels deep, of
// the structs they hold. Blank fields and "-" tagged fields are skipped;
// embedded structs contribute their members at the same level.
func MemberPaths(root *Node, tagKey string, maxDepth int) []MemberPath {
	if root == nil || root.Shape != ShapeStruct {
		return nil
	}

	w := &memberWalker{tagKey: tagKey, maxDepth: maxDepth, active: map[*Node]bool{root: true}}
	w.walk(root, root.Ref.Name, 0)

	return w.out
}

type memberWalker struct {
	tagKey   string
	maxDepth int
	active   map[*Node]bool
	out      []MemberPath
}

// enter visits n below prefix unless n is already on the current path.
func (w *memberWalker) enter(n *Node, prefix string, depth int) {
	if n == nil || n.Shape != ShapeStruct || w.active[n] {
		return
	}

	w.active[n] = true
	w.walk(n, prefix, depth)
	delete(w.active, n)
}

func (w *memberWalker) walk(n *Node, prefix string, depth int) {
	if depth > w.maxDepth {
		return
	}

	for i := range n.Fields {
		f := &n.Fields[i]
		if f.Blank() || f.Tag.Get(w.tagKey) == "-" {
			continue
		}

		if f.Embedded {
			w.enter(f.Type.Deref(), prefix, depth)

			continue
		}

		path := prefix + "." + f.Name
		w.out = append(w.out, MemberPath{Path: path, Type: Describe(f.Type)})

		held := f.Type.Deref()
		if held.Repeated() {
			path += "[]"
			held = held.Elem.Deref()
		}

		w.enter(held, path, depth+1)
	}
}
