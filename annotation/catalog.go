package annotation

import (
	"slices"
	"sync"
)

// Catalog is an in-memory provider populated programmatically or from
// metadata documents. Classes are addressed by name.
type Catalog struct {
	mu      sync.RWMutex
	classes map[ClassRef]*CatalogClass
}

// CatalogClass is the mutable description of one catalog class.
type CatalogClass struct {
	ref     ClassRef
	extends []ClassRef
	items   []Item
	members []memberInfo
	index   map[string]int
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{classes: make(map[ClassRef]*CatalogClass)}
}

// Class returns the class called name, declaring it on first use.
func (c *Catalog) Class(name string) *CatalogClass {
	ref := ParseClassRef(name)

	c.mu.Lock()
	defer c.mu.Unlock()

	cc, ok := c.classes[ref]
	if !ok {
		cc = &CatalogClass{ref: ref, index: make(map[string]int)}
		c.classes[ref] = cc
	}

	return cc
}

// Ref returns the class reference.
func (cc *CatalogClass) Ref() ClassRef { return cc.ref }

// Extends appends direct ancestors, nearest first.
func (cc *CatalogClass) Extends(names ...string) *CatalogClass {
	for _, n := range names {
		cc.extends = append(cc.extends, ParseClassRef(n))
	}

	return cc
}

// Meta appends class-level items.
func (cc *CatalogClass) Meta(items ...Item) *CatalogClass {
	cc.items = append(cc.items, items...)

	return cc
}

// Property declares a member, or appends items to an existing one.
func (cc *CatalogClass) Property(name string, items ...Item) *CatalogClass {
	return cc.PropertyOf(Member{Name: name, ElementName: name}, items...)
}

// PropertyOf declares a member with full member information.
func (cc *CatalogClass) PropertyOf(m Member, items ...Item) *CatalogClass {
	if m.ElementName == "" {
		m.ElementName = m.Name
	}

	if i, ok := cc.index[m.Name]; ok {
		cc.members[i].items = append(cc.members[i].items, items...)

		return cc
	}

	cc.index[m.Name] = len(cc.members)
	cc.members = append(cc.members, memberInfo{member: m, items: items})

	return cc
}

func (c *Catalog) class(ref ClassRef) (*CatalogClass, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cc, ok := c.classes[ref]
	if !ok {
		return nil, UnknownClass(ref.String(), c.names())
	}

	return cc, nil
}

func (c *Catalog) names() []string {
	names := make([]string, 0, len(c.classes))
	for ref := range c.classes {
		names = append(names, ref.String())
	}

	slices.Sort(names)

	return names
}

// Classes implements Catalogue.
func (c *Catalog) Classes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.names()
}

// Resolve implements Provider. Catalog classes have no instances.
func (c *Catalog) Resolve(v any) (ClassRef, any, error) {
	switch x := v.(type) {
	case string:
		ref, err := c.Lookup(x)

		return ref, nil, err
	case ClassRef:
		if _, err := c.class(x); err != nil {
			return ClassRef{}, nil, err
		}

		return x, nil, nil
	case *CatalogClass:
		return x.ref, nil, nil
	}

	return ClassRef{}, nil, &MetadataResolutionError{Reason: "catalog classes are addressed by name"}
}

// Lookup implements Provider.
func (c *Catalog) Lookup(name string) (ClassRef, error) {
	ref := ParseClassRef(name)
	if _, err := c.class(ref); err == nil {
		return ref, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var found []ClassRef

	for r := range c.classes {
		if r.Short() == name || r.Name == name {
			found = append(found, r)
		}
	}

	if len(found) == 1 {
		return found[0], nil
	}

	if len(found) > 1 {
		return ClassRef{}, &MetadataResolutionError{Class: name, Reason: "ambiguous class name"}
	}

	return ClassRef{}, UnknownClass(name, c.names())
}

// Hierarchy implements Provider.
func (c *Catalog) Hierarchy(ref ClassRef) ([]ClassRef, error) {
	cc, err := c.class(ref)
	if err != nil {
		return nil, err
	}

	var (
		out  []ClassRef
		path = map[ClassRef]bool{ref: true}
		seen = map[ClassRef]bool{ref: true}
	)

	var walk func(cc *CatalogClass) error

	walk = func(cc *CatalogClass) error {
		for _, parent := range cc.extends {
			if path[parent] {
				return &MetadataResolutionError{Class: ref.String(), Reason: "cyclic inheritance through " + parent.String()}
			}

			if seen[parent] {
				continue
			}

			pc, err := c.class(parent)
			if err != nil {
				return err
			}

			seen[parent] = true
			path[parent] = true
			out = append(out, parent)

			if err := walk(pc); err != nil {
				return err
			}

			delete(path, parent)
		}

		return nil
	}

	if err := walk(cc); err != nil {
		return nil, err
	}

	return out, nil
}

// ClassMetadata implements Provider.
func (c *Catalog) ClassMetadata(ref ClassRef) ([]Item, error) {
	cc, err := c.class(ref)
	if err != nil {
		return nil, err
	}

	return slices.Clone(cc.items), nil
}

// Members implements Provider.
func (c *Catalog) Members(ref ClassRef) ([]Member, error) {
	ancestors, err := c.Hierarchy(ref)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)

	var out []Member

	for _, r := range append([]ClassRef{ref}, ancestors...) {
		cc, err := c.class(r)
		if err != nil {
			return nil, err
		}

		for _, m := range cc.members {
			if !seen[m.member.Name] {
				seen[m.member.Name] = true
				out = append(out, m.member)
			}
		}
	}

	return out, nil
}

// PropertyMetadata implements Provider.
func (c *Catalog) PropertyMetadata(ref ClassRef, member string) ([]Item, error) {
	cc, err := c.class(ref)
	if err != nil {
		return nil, err
	}

	if i, ok := cc.index[member]; ok {
		return slices.Clone(cc.members[i].items), nil
	}

	return nil, nil
}
