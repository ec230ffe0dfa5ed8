package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formspec/annotation"
	"formspec/ledger"
)

func TestNodeKind_String(t *testing.T) {
	assert.Equal(t, "form", NodeForm.String())
	assert.Equal(t, "fieldset", NodeFieldset.String())
	assert.Equal(t, "element", NodeElement.String())
	assert.Equal(t, "collection", NodeCollection.String())
	assert.Equal(t, "NodeKind(0)", NodeKind(0).String())

	assert.True(t, NodeForm.IsContainer())
	assert.False(t, NodeCollection.IsContainer())
}

func TestNewElement_Defaults(t *testing.T) {
	e := NewElement("email")

	assert.Equal(t, NodeElement, e.Kind)
	assert.Equal(t, DefaultPriority, e.Priority)
	require.NotNil(t, e.Input)
	assert.False(t, e.Input.Required)
	assert.True(t, e.Input.AllowEmpty)
	assert.True(t, e.Input.ContinueIfEmpty)
}

func TestElementSpec_Map(t *testing.T) {
	root := NewContainer("signup", NodeForm, ledger.ByPriority)
	root.Attributes.Set("method", "post")

	username := NewElement("username")
	username.Input.Required = true
	username.Input.Validators = []ValidatorSpec{{Name: "NotEmpty", Priority: DefaultPriority}}

	email := NewElement("email")
	email.Priority = 2
	email.Attributes = annotation.NewValues("type", "email")

	root.Children.Insert("username", username, username.Priority)
	root.Children.Insert("email", email, email.Priority)
	root.Input.Inputs.Insert("username", username.Input, username.Priority)
	root.Input.Inputs.Insert("email", email.Input, email.Priority)

	m := root.Map()
	assert.Equal(t, "signup", m["name"])
	assert.Equal(t, "form", m["kind"])
	assert.Equal(t, map[string]any{"method": "post"}, m["attributes"])
	assert.NotContains(t, m, "options")

	elements := m["elements"].([]any)
	require.Len(t, elements, 2)
	assert.Equal(t, "email", elements[0].(map[string]any)["name"])
	assert.Equal(t, "username", elements[1].(map[string]any)["name"])

	filter := m["input_filter"].(map[string]any)
	inputs := filter["inputs"].([]any)
	require.Len(t, inputs, 2)

	first := inputs[0].(map[string]any)
	assert.Equal(t, "email", first["name"])
	assert.Equal(t, false, first["required"])

	second := inputs[1].(map[string]any)
	assert.Equal(t, true, second["required"])
	assert.Len(t, second["validators"], 1)
}

func TestElementSpec_Lookups(t *testing.T) {
	root := NewContainer("f", NodeFieldset, ledger.Declared)
	child := NewElement("a")
	root.Children.Insert("a", child, 1)
	root.Input.Inputs.Insert("a", child.Input, 1)

	got, ok := root.Child("a")
	require.True(t, ok)
	assert.Same(t, child, got)

	_, ok = root.Child("b")
	assert.False(t, ok)

	in, ok := root.Input.Input("a")
	require.True(t, ok)
	assert.Same(t, child.Input, in)

	var nilSpec *ElementSpec
	_, ok = nilSpec.Child("a")
	assert.False(t, ok)
	assert.Nil(t, nilSpec.Map())
}
