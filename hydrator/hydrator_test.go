package hydrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	FirstName string
	LastName  string
	Age       int
	Active    bool
}

type account struct {
	firstName string
	active    bool
}

func (a *account) GetFirstName() string  { return a.firstName }
func (a *account) SetFirstName(v string) { a.firstName = v }
func (a *account) IsActive() bool        { return a.active }
func (a *account) SetActive(v bool)      { a.active = v }
func (a *account) GetWithArg(int) string { return "" }
func (a *account) IsNotBool() string     { return "" }

func TestObjectProperty_Extract(t *testing.T) {
	p := &profile{FirstName: "Ada", LastName: "Lovelace", Age: 36, Active: true}

	got, err := NewObjectProperty(false).Extract(p)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"age":       36,
		"active":    true,
	}, got)

	got, err = NewObjectProperty(true).Extract(*p)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got["first_name"])
}

func TestObjectProperty_Hydrate(t *testing.T) {
	var p profile

	err := NewObjectProperty(true).Hydrate(map[string]any{
		"first_name": "Grace",
		"lastName":   "Hopper",
		"age":        "85",
	}, &p)
	require.NoError(t, err)
	assert.Equal(t, profile{FirstName: "Grace", LastName: "Hopper", Age: 85}, p)

	require.Error(t, NewObjectProperty(true).Hydrate(nil, p), "a struct value cannot be hydrated")
	require.Error(t, NewObjectProperty(true).Hydrate(nil, 42))
}

func TestClassMethods(t *testing.T) {
	a := &account{firstName: "Ada", active: true}

	got, err := NewClassMethods(true).Extract(a)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"first_name": "Ada", "active": true}, got)

	got, err = NewClassMethods(false).Extract(a)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"firstName": "Ada", "active": true}, got)

	require.NoError(t, NewClassMethods(true).Hydrate(map[string]any{
		"first_name": "Grace",
		"active":     "false",
		"unknown":    1,
	}, a))
	assert.Equal(t, "Grace", a.firstName)
	assert.False(t, a.active)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{ClassMethodsID, ObjectPropertyID}, r.IDs())
	assert.True(t, r.Has("ClassMethods"))

	h, err := r.New("ClassMethods", map[string]any{"underscore_separated_keys": false})
	require.NoError(t, err)
	assert.Equal(t, &ClassMethods{underscore: false}, h)

	h, err = r.New(ClassMethodsID, nil)
	require.NoError(t, err)
	assert.Equal(t, &ClassMethods{underscore: true}, h)

	h, err = r.New(ObjectPropertyID, nil)
	require.NoError(t, err)
	assert.Equal(t, &ObjectProperty{underscore: false}, h)

	_, err = r.New(ClassMethodsID, map[string]any{"bogus": 1})
	require.Error(t, err)

	_, err = r.New("array_serializable", nil)
	require.ErrorContains(t, err, "unknown hydrator")

	require.Error(t, r.Register("object-property", func(map[string]any) (Hydrator, error) { return nil, nil }))
}
