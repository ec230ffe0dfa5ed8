package analyze

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formspec/annotation"
)

const accountsPkg = "formspec/examples/accounts"

func accountsRef(name string) annotation.ClassRef {
	return annotation.ClassRef{PkgPath: accountsPkg, Name: name}
}

func loadGraph(t *testing.T) *Graph {
	t.Helper()

	g, err := LoadGraph(t.Context(), "", accountsPkg)
	require.NoError(t, err)

	return g
}

func accountsStruct(t *testing.T, name string) *Node {
	t.Helper()

	n, err := loadGraph(t).Struct(accountsRef(name))
	require.NoError(t, err)

	return n
}

func field(t *testing.T, n *Node, name string) *Field {
	t.Helper()

	for i := range n.Fields {
		if n.Fields[i].Name == name {
			return &n.Fields[i]
		}
	}

	require.Failf(t, "missing field", "%s has no field %s", n.Ref, name)

	return nil
}

func TestLoadGraph(t *testing.T) {
	g := loadGraph(t)

	require.Contains(t, g.Packages, accountsPkg)
	assert.Equal(t, "accounts", g.Packages[accountsPkg].Name)

	for _, name := range []string{"User", "Audit", "Credentials", "Address", "Phone", "Signup"} {
		assert.True(t, g.Node(accountsRef(name)).Class(), name)
		assert.Contains(t, g.Packages[accountsPkg].Decls, accountsRef(name))
	}
}

func TestLoadGraph_Fields(t *testing.T) {
	user := accountsStruct(t, "User")
	assert.Equal(t, ShapeStruct, user.Shape)

	audit := field(t, user, "Audit")
	assert.True(t, audit.Embedded)
	assert.Equal(t, accountsRef("Audit"), audit.Type.Ref)

	blank := field(t, user, "_")
	assert.True(t, blank.Blank())
	assert.False(t, blank.Exported())

	_, ok := blank.Tag.Lookup("form")
	assert.True(t, ok)

	phones := field(t, user, "Phones")
	assert.Equal(t, ShapeSlice, phones.Type.Shape)
	assert.True(t, phones.Type.Repeated())
	assert.True(t, phones.Type.Elem.Class())

	assert.Equal(t, "-", field(t, user, "Internal").Tag.Get("form"))
	assert.Equal(t, ShapeScalar, field(t, user, "Newsletter").Type.Shape)
}

func TestGraph_Struct(t *testing.T) {
	g := loadGraph(t)

	_, err := g.Struct(accountsRef("Missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadGraph_BadPattern(t *testing.T) {
	_, err := LoadGraph(t.Context(), "", "formspec/examples/does-not-exist")
	require.Error(t, err)
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "scalar", ShapeScalar.String())
	assert.Equal(t, "struct", ShapeStruct.String())
	assert.Equal(t, "pointer", ShapePointer.String())
	assert.Equal(t, "slice", ShapeSlice.String())
	assert.Equal(t, "array", ShapeArray.String())
	assert.Equal(t, "defined", ShapeDefined.String())
	assert.Equal(t, "foreign", ShapeForeign.String())
	assert.Equal(t, "unknown", ShapeOther.String())
	assert.Equal(t, "unknown", Shape(200).String())
}

func TestField_ElementName(t *testing.T) {
	tests := map[string]string{
		`json:"postal_code"`:           "postal_code",
		`json:"postal_code,omitempty"`: "postal_code",
		``:                             "postalCode",
		`json:"-"`:                     "postalCode",
		`json:",omitempty"`:            "postalCode",
	}

	for tag, want := range tests {
		f := Field{Name: "PostalCode", Tag: reflect.StructTag(tag)}
		assert.Equal(t, want, f.ElementName(), tag)
	}
}
