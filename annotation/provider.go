package annotation

import "formspec/internal/common"

// ClassRef identifies a class: a named struct type, or a catalog entry.
type ClassRef struct {
	PkgPath string
	Name    string
}

// ParseClassRef splits a qualified name such as "example.com/app/models.User".
func ParseClassRef(name string) ClassRef {
	pkg, typ := common.SplitQualified(name)

	return ClassRef{PkgPath: pkg, Name: typ}
}

// String returns the fully qualified class name.
func (c ClassRef) String() string {
	if c.PkgPath == "" {
		return c.Name
	}

	return c.PkgPath + "." + c.Name
}

// Short returns the class name qualified by its package alias.
func (c ClassRef) Short() string {
	if c.PkgPath == "" {
		return c.Name
	}

	return common.PkgAlias(c.PkgPath) + "." + c.Name
}

// IsZero reports whether c is unset.
func (c ClassRef) IsZero() bool {
	return c.Name == ""
}

// Member is a public property of a class.
type Member struct {
	// Name is the declared member name.
	Name string
	// ElementName is the default element name when no "name" item is given.
	ElementName string
	// Elem is the class of the member's value when it is a struct, or of the
	// collection entries when Collection is set.
	Elem       ClassRef
	Collection bool
}

// Provider discovers classes and their metadata.
//
// Hierarchy returns the ancestors of a class in descendant-first order,
// excluding the class itself. Members returns declared members first, then
// inherited ones. ClassMetadata and PropertyMetadata return the items declared
// on exactly that class, in declaration order.
type Provider interface {
	// Resolve accepts a class name, a ClassRef, or a value of the class.
	// For values it also returns the instance to bind, or nil.
	Resolve(v any) (ClassRef, any, error)
	Lookup(name string) (ClassRef, error)
	Hierarchy(c ClassRef) ([]ClassRef, error)
	ClassMetadata(c ClassRef) ([]Item, error)
	Members(c ClassRef) ([]Member, error)
	PropertyMetadata(c ClassRef, member string) ([]Item, error)
}

// Instantiator is implemented by providers able to create empty objects of a
// class, for binding composed fieldsets.
type Instantiator interface {
	NewInstance(c ClassRef) (any, error)
}

// Catalogue is implemented by providers able to list the classes they know.
type Catalogue interface {
	Classes() []string
}
