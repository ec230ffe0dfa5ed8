package analyze

import (
	"context"
	"slices"
	"strings"
	"sync"

	"formspec/annotation"
)

// SourceProvider reads form metadata from struct declarations loaded from
// source. It mirrors annotation.ReflectProvider: blank fields carry class
// metadata, embedded structs are ancestors and tagged exported fields are
// members. Classes have no live instances.
type SourceProvider struct {
	graph  *Graph
	tagKey string
	kinds  *annotation.KindRegistry

	mu    sync.Mutex
	cache map[annotation.ClassRef]*classInfo
}

type classInfo struct {
	items   []annotation.Item
	members []memberInfo
	parents []annotation.ClassRef
	err     error
}

type memberInfo struct {
	member annotation.Member
	items  []annotation.Item
}

// SourceOption configures a SourceProvider.
type SourceOption func(*SourceProvider)

// WithTagKey sets the struct tag key holding metadata.
func WithTagKey(key string) SourceOption {
	return func(p *SourceProvider) {
		if key != "" {
			p.tagKey = key
		}
	}
}

// WithKinds sets the kind registry used to decode tags.
func WithKinds(kinds *annotation.KindRegistry) SourceOption {
	return func(p *SourceProvider) {
		if kinds != nil {
			p.kinds = kinds
		}
	}
}

// NewSourceProvider returns a provider over graph.
func NewSourceProvider(graph *Graph, opts ...SourceOption) *SourceProvider {
	p := &SourceProvider{
		graph:  graph,
		tagKey: annotation.DefaultTagKey,
		kinds:  annotation.DefaultKinds(),
		cache:  make(map[annotation.ClassRef]*classInfo),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Load is a shortcut that loads patterns relative to dir and returns a
// provider over the result.
func Load(ctx context.Context, dir string, patterns []string, opts ...SourceOption) (*SourceProvider, error) {
	graph, err := LoadGraph(ctx, dir, patterns...)
	if err != nil {
		return nil, err
	}

	return NewSourceProvider(graph, opts...), nil
}

// Graph returns the underlying type graph.
func (p *SourceProvider) Graph() *Graph { return p.graph }

// Resolve implements annotation.Provider. Only class names and references
// resolve; there are no objects to bind.
func (p *SourceProvider) Resolve(v any) (annotation.ClassRef, any, error) {
	switch x := v.(type) {
	case string:
		ref, err := p.Lookup(x)

		return ref, nil, err
	case annotation.ClassRef:
		if _, err := p.structOf(x); err != nil {
			return annotation.ClassRef{}, nil, err
		}

		return x, nil, nil
	}

	return annotation.ClassRef{}, nil, &annotation.MetadataResolutionError{
		Reason: "source provider resolves class names only",
	}
}

// Lookup implements annotation.Provider with the same name forms as the
// reflect provider: fully qualified, package-alias qualified, or bare.
func (p *SourceProvider) Lookup(name string) (annotation.ClassRef, error) {
	var matches []annotation.ClassRef

	for ref, n := range p.graph.Named {
		if n.Shape != ShapeStruct {
			continue
		}

		if ref.String() == name || ref.Short() == name || ref.Name == name {
			matches = append(matches, ref)
		}
	}

	switch len(matches) {
	case 0:
		return annotation.ClassRef{}, annotation.UnknownClass(name, p.Classes())
	case 1:
		return matches[0], nil
	}

	for _, m := range matches {
		if m.String() == name {
			return m, nil
		}
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.String()
	}

	slices.Sort(names)

	return annotation.ClassRef{}, &annotation.MetadataResolutionError{
		Class:  name,
		Reason: "ambiguous class name, candidates: " + strings.Join(names, ", "),
	}
}

// Classes implements annotation.Catalogue. Only struct types of loaded
// packages are listed.
func (p *SourceProvider) Classes() []string {
	var names []string

	for _, pkg := range p.graph.Packages {
		for _, ref := range pkg.Decls {
			if p.graph.Node(ref).Class() {
				names = append(names, ref.String())
			}
		}
	}

	slices.Sort(names)

	return names
}

// Hierarchy implements annotation.Provider.
func (p *SourceProvider) Hierarchy(c annotation.ClassRef) ([]annotation.ClassRef, error) {
	info, err := p.info(c)
	if err != nil {
		return nil, err
	}

	var (
		out  []annotation.ClassRef
		seen = map[annotation.ClassRef]bool{c: true}
	)

	var walk func(ci *classInfo) error

	walk = func(ci *classInfo) error {
		for _, parent := range ci.parents {
			if seen[parent] {
				continue
			}

			seen[parent] = true
			out = append(out, parent)

			pi, err := p.info(parent)
			if err != nil {
				return err
			}

			if err := walk(pi); err != nil {
				return err
			}
		}

		return nil
	}

	if err := walk(info); err != nil {
		return nil, err
	}

	return out, nil
}

// ClassMetadata implements annotation.Provider.
func (p *SourceProvider) ClassMetadata(c annotation.ClassRef) ([]annotation.Item, error) {
	info, err := p.info(c)
	if err != nil {
		return nil, err
	}

	return slices.Clone(info.items), nil
}

// Members implements annotation.Provider.
func (p *SourceProvider) Members(c annotation.ClassRef) ([]annotation.Member, error) {
	ancestors, err := p.Hierarchy(c)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)

	var out []annotation.Member

	for _, ref := range append([]annotation.ClassRef{c}, ancestors...) {
		info, err := p.info(ref)
		if err != nil {
			return nil, err
		}

		for _, m := range info.members {
			if !seen[m.member.Name] {
				seen[m.member.Name] = true
				out = append(out, m.member)
			}
		}
	}

	return out, nil
}

// PropertyMetadata implements annotation.Provider. It returns nil when c does
// not declare the member itself.
func (p *SourceProvider) PropertyMetadata(c annotation.ClassRef, member string) ([]annotation.Item, error) {
	info, err := p.info(c)
	if err != nil {
		return nil, err
	}

	for _, m := range info.members {
		if m.member.Name == member {
			return slices.Clone(m.items), nil
		}
	}

	return nil, nil
}

func (p *SourceProvider) structOf(c annotation.ClassRef) (*Node, error) {
	n := p.graph.Node(c)
	if n == nil {
		return nil, annotation.UnknownClass(c.String(), p.Classes())
	}

	if n.Shape != ShapeStruct {
		return nil, &annotation.MetadataResolutionError{
			Class:  c.String(),
			Reason: "class must be a named struct type, got " + n.Shape.String(),
		}
	}

	return n, nil
}

func (p *SourceProvider) info(c annotation.ClassRef) (*classInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, ok := p.cache[c]; ok {
		return cached, cached.err
	}

	info := p.inspect(c)
	p.cache[c] = info

	return info, info.err
}

func (p *SourceProvider) inspect(c annotation.ClassRef) *classInfo {
	info := &classInfo{}

	t, err := p.structOf(c)
	if err != nil {
		info.err = err

		return info
	}

	for i := range t.Fields {
		f := &t.Fields[i]
		tag := f.Tag.Get(p.tagKey)

		switch {
		case f.Blank():
			items, err := annotation.ParseTag(tag, p.kinds)
			if err != nil {
				info.err = &annotation.MetadataResolutionError{
					Class:  c.String(),
					Reason: "malformed class metadata",
					Err:    err,
				}

				return info
			}

			info.items = append(info.items, items...)
		case f.Embedded:
			if parent := f.Type.Deref(); parent.Class() {
				info.parents = append(info.parents, parent.Ref)
			}
		case f.Exported():
			if tag == "-" {
				continue
			}

			items, err := annotation.ParseTag(tag, p.kinds)
			if err != nil {
				info.err = &annotation.MetadataResolutionError{
					Class:  c.String(),
					Member: f.Name,
					Reason: "malformed property metadata",
					Err:    err,
				}

				return info
			}

			info.members = append(info.members, memberInfo{member: memberOf(f), items: items})
		}
	}

	return info
}

func memberOf(f *Field) annotation.Member {
	m := annotation.Member{Name: f.Name, ElementName: f.ElementName()}

	held := f.Type.Deref()
	if held.Repeated() {
		m.Collection = true
		held = held.Elem.Deref()
	}

	if held.Class() {
		m.Elem = held.Ref
	}

	return m
}
