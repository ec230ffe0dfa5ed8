package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formspec/annotation"
	"formspec/examples/accounts"
	"formspec/form"
	"formspec/hydrator"
	"formspec/inputfilter"
	"formspec/ledger"
	"formspec/spec"
)

func elementNames(c form.Container) []string {
	var out []string
	for name := range c.All() {
		out = append(out, name)
	}

	return out
}

func inputNames(c inputfilter.Container) []string {
	var out []string
	for name := range c.All() {
		out = append(out, name)
	}

	return out
}

func getContainer(t *testing.T, c form.Container, name string) form.Container {
	t.Helper()

	el, ok := c.Get(name)
	require.True(t, ok, "missing element %q", name)

	ct, ok := el.(form.Container)
	require.True(t, ok, "element %q is %T, not a container", name, el)

	return ct
}

func getInput(t *testing.T, c inputfilter.Container, name string) inputfilter.Input {
	t.Helper()

	e, ok := c.Get(name)
	require.True(t, ok, "missing input %q", name)

	in, ok := e.(inputfilter.Input)
	require.True(t, ok, "input %q is %T", name, e)

	return in
}

func TestCreateForm_RequiredInputs(t *testing.T) {
	f, err := New().CreateForm(accounts.Signup{})
	require.NoError(t, err)

	assert.Equal(t, "signup", f.Name())
	assert.True(t, f.Has("username"))
	assert.True(t, f.Has("password"))

	password, ok := f.Get("password")
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"type":  "password",
		"label": "Enter your password",
		"name":  "password",
	}, annotation.ValuesMap(password.Attributes()))

	_, hasRequired := password.Attribute("required")
	assert.False(t, hasRequired)

	require.NotNil(t, f.InputFilter())

	username := getInput(t, f.InputFilter(), "username")
	assert.True(t, username.IsRequired())
	assert.False(t, username.AllowEmpty())
	assert.True(t, username.ContinueIfEmpty())
	assert.Equal(t, []string{"NotEmpty", "StringLength"}, username.Validators().Names())

	pw := getInput(t, f.InputFilter(), "password")
	assert.True(t, pw.IsRequired())
	assert.Equal(t, []string{"StringLength"}, pw.Validators().Names())

	for v := range pw.Validators().All() {
		assert.Equal(t, map[string]any{"min": 8}, v.Options)
	}
}

func TestCreateForm_ComposedFieldset(t *testing.T) {
	f, err := New().CreateForm(accounts.Composed{})
	require.NoError(t, err)

	assert.True(t, f.Has("composed"))

	composed := getContainer(t, f, "composed")
	assert.True(t, composed.Has("username"))
	assert.True(t, composed.Has("password"))

	label, _ := composed.Option("label")
	assert.Equal(t, "Account", label)

	e, ok := f.InputFilter().Get("composed")
	require.True(t, ok)

	nested, ok := e.(inputfilter.Container)
	require.True(t, ok)
	assert.Equal(t, []string{"username", "password"}, inputNames(nested))
	assert.True(t, getInput(t, nested, "username").IsRequired())
	assert.Equal(t, []string{"StringTrim"}, getInput(t, nested, "username").Filters().Names())
}

func TestCreateForm_ComposedCollection(t *testing.T) {
	f, err := New().CreateForm(accounts.ComposedCollection{})
	require.NoError(t, err)

	el, ok := f.Get("composed")
	require.True(t, ok)

	coll, ok := el.(*form.Collection)
	require.True(t, ok, "composed is %T", el)

	target := coll.TargetElement()
	require.NotNil(t, target)
	assert.True(t, target.Has("username"))
	assert.True(t, target.Has("password"))
	assert.Equal(t, 3, coll.Count())
	assert.Equal(t, 3, coll.Len())

	assert.False(t, f.Has("username"))

	e, ok := f.InputFilter().Get("composed")
	require.True(t, ok)

	collIn, ok := e.(*inputfilter.CollectionInputFilter)
	require.True(t, ok, "composed input is %T", e)
	assert.Equal(t, 3, collIn.Count())
	require.NotNil(t, collIn.Target())
	assert.Equal(t, []string{"username", "password"}, inputNames(collIn.Target()))
}

func TestCreateForm_PriorityOrder(t *testing.T) {
	f, err := New().CreateForm(accounts.Prioritized{})
	require.NoError(t, err)

	assert.Equal(t, []string{"email", "password", "username"}, elementNames(f))
	assert.Equal(t, []string{"email", "password", "username"}, inputNames(f.InputFilter()))

	for name := range f.InputFilter().All() {
		assert.False(t, getInput(t, f.InputFilter(), name).IsRequired(), name)
	}
}

func TestCreateForm_PreserveDefinedOrder(t *testing.T) {
	f, err := New().CreateForm(accounts.Profile{})
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "nickname", "bio"}, elementNames(f))

	b := New(WithPreserveDefinedOrder(true))
	assert.Equal(t, ledger.Declared, b.Ordering())

	f, err = b.CreateForm(accounts.Profile{})
	require.NoError(t, err)
	assert.Equal(t, []string{"nickname", "bio", "email"}, elementNames(f))
	assert.Equal(t, []string{"nickname", "bio", "email"}, inputNames(f.InputFilter()))

	sp, err := b.GetFormSpecification(accounts.Profile{})
	require.NoError(t, err)
	assert.Equal(t, []string{"nickname", "bio", "email"}, sp.Children.Keys())
}

func TestCreateForm_User(t *testing.T) {
	user := &accounts.User{
		Email:       "jane@example.com",
		DisplayName: "Jane",
		Credentials: accounts.Credentials{Username: "jane"},
		Phones: []accounts.Phone{
			{Number: "555-0100", Kind: "home"},
			{Number: "555-0101", Kind: "work"},
			{Number: "555-0102", Kind: "work"},
		},
	}

	f, err := New().CreateForm(user)
	require.NoError(t, err)

	assert.Equal(t, "user", f.Name())
	assert.Same(t, user, f.Object())
	assert.IsType(t, &hydrator.ObjectProperty{}, f.Hydrator())

	assert.Equal(t, []string{
		"email", "displayName", "credentials", "address", "phones", "newsletter", "updated_at",
	}, elementNames(f))
	assert.False(t, f.Has("createdBy"))
	assert.False(t, f.Has("internal"))

	class, _ := f.Attribute("class")
	assert.Equal(t, "user-form", class)

	audit, _ := f.Attribute("data-audit")
	assert.Equal(t, "on", audit)

	email, ok := f.Get("email")
	require.True(t, ok)
	assert.Equal(t, "email", email.Type())
	assert.Equal(t, "jane@example.com", email.Value())

	credentials := getContainer(t, f, "credentials")
	username, ok := credentials.Get("username")
	require.True(t, ok)
	assert.Equal(t, "jane", username.Value())

	el, ok := f.Get("phones")
	require.True(t, ok)

	phones, ok := el.(*form.Collection)
	require.True(t, ok)
	assert.Equal(t, 2, phones.Count())
	assert.True(t, phones.ShouldCreateTemplate())
	assert.Equal(t, 3, phones.Len())

	first := getContainer(t, phones, "0")
	number, ok := first.Get("number")
	require.True(t, ok)
	assert.Equal(t, "555-0100", number.Value())

	assert.False(t, f.InputFilter().Has("updated_at"))
	assert.True(t, getInput(t, f.InputFilter(), "email").IsRequired())
	assert.False(t, getInput(t, f.InputFilter(), "newsletter").ContinueIfEmpty())
	assert.Equal(t, "Pick a display name", getInput(t, f.InputFilter(), "displayName").ErrorMessage())
}

func TestCreateForm_HydrateRoundTrip(t *testing.T) {
	signup := &accounts.Signup{Username: "jane"}

	f, err := New().CreateForm(signup)
	require.NoError(t, err)

	password, ok := f.Get("password")
	require.True(t, ok)
	password.SetValue("correct horse")

	require.NoError(t, f.Hydrate())
	assert.Equal(t, "jane", signup.Username)
	assert.Equal(t, "correct horse", signup.Password)
}

func TestGetFormSpecification_Unbound(t *testing.T) {
	b := New()

	sp, err := b.GetFormSpecification((*accounts.Signup)(nil))
	require.NoError(t, err)
	assert.Nil(t, sp.Object)
	assert.Equal(t, spec.NodeForm, sp.Kind)
	assert.Equal(t, "signup", sp.Name)

	sp, err = b.GetFormSpecification("accounts.Signup")
	require.NoError(t, err)
	assert.Equal(t, "signup", sp.Name)

	_, err = b.GetFormSpecification("accounts.Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, annotation.ErrMetadataResolution)

	_, err = b.GetFormSpecification(nil)
	require.Error(t, err)
}

func TestGetFormSpecification_SameResultTwice(t *testing.T) {
	b := New()

	first, err := b.GetFormSpecification(accounts.User{})
	require.NoError(t, err)

	second, err := b.GetFormSpecification(accounts.User{})
	require.NoError(t, err)

	assert.Equal(t, first.Map(), second.Map())
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(map[string]any{
		"preserve_defined_order": "true",
		"tag_key":                "spec",
	})
	require.NoError(t, err)
	assert.Equal(t, Config{PreserveDefinedOrder: true, TagKey: "spec"}, cfg)

	_, err = DecodeConfig(map[string]any{"preserve_order": true})
	require.Error(t, err)
}

type specTagged struct {
	Login string `spec:"required"`
	Other string `form:"required"`
}

func TestFromConfig(t *testing.T) {
	b := New(FromConfig(Config{PreserveDefinedOrder: true, TagKey: "spec"}))
	assert.Equal(t, ledger.Declared, b.Ordering())

	sp, err := b.GetFormSpecification(specTagged{})
	require.NoError(t, err)

	login, ok := sp.Input.Input("login")
	require.True(t, ok)
	assert.True(t, login.Required)

	other, ok := sp.Input.Input("other")
	require.True(t, ok)
	assert.False(t, other.Required)
}
