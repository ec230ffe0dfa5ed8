package annotation

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"formspec/internal/naming"
)

// ReflectProvider reads metadata from struct tags at runtime.
// Class information is computed once per type and cached.
type ReflectProvider struct {
	tagKey string
	kinds  *KindRegistry

	types sync.Map // ClassRef -> reflect.Type
	cache sync.Map // reflect.Type -> *classInfo
}

type classInfo struct {
	ref     ClassRef
	typ     reflect.Type
	items   []Item
	members []memberInfo
	parents []reflect.Type
	err     error
}

type memberInfo struct {
	member Member
	items  []Item
}

// ReflectOption configures a ReflectProvider.
type ReflectOption func(*ReflectProvider)

// WithTagKey sets the struct tag key holding metadata.
func WithTagKey(key string) ReflectOption {
	return func(p *ReflectProvider) {
		if key != "" {
			p.tagKey = key
		}
	}
}

// WithKinds sets the kind registry used to decode payloads.
func WithKinds(kinds *KindRegistry) ReflectOption {
	return func(p *ReflectProvider) {
		if kinds != nil {
			p.kinds = kinds
		}
	}
}

// NewReflectProvider returns a provider reading the "form" tag by default.
func NewReflectProvider(opts ...ReflectOption) *ReflectProvider {
	p := &ReflectProvider{
		tagKey: DefaultTagKey,
		kinds:  DefaultKinds(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Register makes the classes of values resolvable by name.
func (p *ReflectProvider) Register(values ...any) error {
	for _, v := range values {
		t, ok := v.(reflect.Type)
		if !ok {
			t = reflect.TypeOf(v)
		}

		if _, err := p.register(t); err != nil {
			return err
		}
	}

	return nil
}

func (p *ReflectProvider) register(t reflect.Type) (ClassRef, error) {
	if t == nil {
		return ClassRef{}, &MetadataResolutionError{Reason: "nil type"}
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct || t.Name() == "" {
		return ClassRef{}, &MetadataResolutionError{
			Class:  t.String(),
			Reason: "class must be a named struct type",
		}
	}

	ref := ClassRef{PkgPath: t.PkgPath(), Name: t.Name()}
	p.types.Store(ref, t)

	return ref, nil
}

// Resolve implements Provider. A non-nil struct pointer is bound as is; a
// struct value is copied into a new pointer.
func (p *ReflectProvider) Resolve(v any) (ClassRef, any, error) {
	switch x := v.(type) {
	case nil:
		return ClassRef{}, nil, &MetadataResolutionError{Reason: "nil class"}
	case string:
		ref, err := p.Lookup(x)

		return ref, nil, err
	case ClassRef:
		if _, err := p.typeOf(x); err != nil {
			return ClassRef{}, nil, err
		}

		return x, nil, nil
	case reflect.Type:
		ref, err := p.register(x)

		return ref, nil, err
	}

	rv := reflect.ValueOf(v)

	ref, err := p.register(rv.Type())
	if err != nil {
		return ClassRef{}, nil, err
	}

	switch {
	case rv.Kind() == reflect.Pointer && rv.IsNil():
		return ref, nil, nil
	case rv.Kind() == reflect.Pointer:
		return ref, v, nil
	default:
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)

		return ref, ptr.Interface(), nil
	}
}

// Lookup implements Provider. The name may be fully qualified, qualified by
// the package alias ("models.User"), or bare ("User") when unambiguous.
func (p *ReflectProvider) Lookup(name string) (ClassRef, error) {
	var matches []ClassRef

	p.types.Range(func(key, _ any) bool {
		ref := key.(ClassRef)
		if ref.String() == name || ref.Short() == name || ref.Name == name {
			matches = append(matches, ref)
		}

		return true
	})

	switch len(matches) {
	case 0:
		return ClassRef{}, UnknownClass(name, p.Classes())
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

	return ClassRef{}, &MetadataResolutionError{
		Class:  name,
		Reason: "ambiguous class name, candidates: " + strings.Join(names, ", "),
	}
}

// Classes implements Catalogue.
func (p *ReflectProvider) Classes() []string {
	var names []string

	p.types.Range(func(key, _ any) bool {
		names = append(names, key.(ClassRef).String())

		return true
	})

	slices.Sort(names)

	return names
}

// NewInstance implements Instantiator.
func (p *ReflectProvider) NewInstance(c ClassRef) (any, error) {
	t, err := p.typeOf(c)
	if err != nil {
		return nil, err
	}

	return reflect.New(t).Interface(), nil
}

// Hierarchy implements Provider.
func (p *ReflectProvider) Hierarchy(c ClassRef) ([]ClassRef, error) {
	info, err := p.lookupInfo(c)
	if err != nil {
		return nil, err
	}

	var (
		out  []ClassRef
		seen = map[reflect.Type]bool{info.typ: true}
	)

	var walk func(ci *classInfo) error

	walk = func(ci *classInfo) error {
		for _, parent := range ci.parents {
			if seen[parent] {
				continue
			}

			seen[parent] = true

			pi := p.info(parent)
			if pi.err != nil {
				return pi.err
			}

			out = append(out, pi.ref)

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

// ClassMetadata implements Provider.
func (p *ReflectProvider) ClassMetadata(c ClassRef) ([]Item, error) {
	info, err := p.lookupInfo(c)
	if err != nil {
		return nil, err
	}

	return slices.Clone(info.items), nil
}

// Members implements Provider.
func (p *ReflectProvider) Members(c ClassRef) ([]Member, error) {
	info, err := p.lookupInfo(c)
	if err != nil {
		return nil, err
	}

	ancestors, err := p.Hierarchy(c)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)

	var out []Member

	for _, ci := range append([]ClassRef{c}, ancestors...) {
		if ci != c {
			if info, err = p.lookupInfo(ci); err != nil {
				return nil, err
			}
		}

		for _, m := range info.members {
			if seen[m.member.Name] {
				continue
			}

			seen[m.member.Name] = true
			out = append(out, m.member)
		}
	}

	return out, nil
}

// PropertyMetadata implements Provider. It returns nil when c does not
// declare the member itself.
func (p *ReflectProvider) PropertyMetadata(c ClassRef, member string) ([]Item, error) {
	info, err := p.lookupInfo(c)
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

func (p *ReflectProvider) typeOf(c ClassRef) (reflect.Type, error) {
	t, ok := p.types.Load(c)
	if !ok {
		return nil, UnknownClass(c.String(), p.Classes())
	}

	return t.(reflect.Type), nil
}

func (p *ReflectProvider) lookupInfo(c ClassRef) (*classInfo, error) {
	t, err := p.typeOf(c)
	if err != nil {
		return nil, err
	}

	info := p.info(t)

	return info, info.err
}

func (p *ReflectProvider) info(t reflect.Type) *classInfo {
	if cached, ok := p.cache.Load(t); ok {
		return cached.(*classInfo)
	}

	info := p.inspect(t)
	actual, _ := p.cache.LoadOrStore(t, info)

	return actual.(*classInfo)
}

func (p *ReflectProvider) inspect(t reflect.Type) *classInfo {
	ref, err := p.register(t)
	info := &classInfo{ref: ref, typ: t, err: err}

	if err != nil {
		return info
	}

	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(p.tagKey)

		switch {
		case f.Name == "_":
			items, err := ParseTag(tag, p.kinds)
			if err != nil {
				info.err = &MetadataResolutionError{Class: ref.String(), Reason: "malformed class metadata", Err: err}

				return info
			}

			info.items = append(info.items, items...)
		case f.Anonymous:
			parent := f.Type
			if parent.Kind() == reflect.Pointer {
				parent = parent.Elem()
			}

			if parent.Kind() == reflect.Struct && parent.Name() != "" {
				if _, err := p.register(parent); err == nil {
					info.parents = append(info.parents, parent)
				}
			}
		case f.IsExported():
			if tag == "-" {
				continue
			}

			items, err := ParseTag(tag, p.kinds)
			if err != nil {
				info.err = &MetadataResolutionError{
					Class:  ref.String(),
					Member: f.Name,
					Reason: "malformed property metadata",
					Err:    err,
				}

				return info
			}

			info.members = append(info.members, memberInfo{
				member: p.memberOf(f),
				items:  items,
			})
		}
	}

	return info
}

func (p *ReflectProvider) memberOf(f reflect.StructField) Member {
	m := Member{Name: f.Name, ElementName: elementName(f)}

	t := f.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		m.Collection = true

		t = t.Elem()
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
	}

	if t.Kind() == reflect.Struct && t.Name() != "" {
		if ref, err := p.register(t); err == nil {
			m.Elem = ref
		}
	}

	return m
}

// elementName prefers the json tag name, then the lowerCamel field name.
func elementName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}

	return naming.LowerCamel(f.Name)
}
