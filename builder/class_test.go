package builder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"formspec/annotation"
	"formspec/diagnostic"
	"formspec/examples/accounts"
	"formspec/spec"
)

func accountCatalog() *annotation.Catalog {
	c := annotation.NewCatalog()

	c.Class("accounts.Base").
		Meta(annotation.NewAttributes("class", "base")).
		Property("email",
			annotation.NewRequired(true),
			annotation.NewValidator("EmailAddress"),
			annotation.NewAttributes("placeholder", "you@example.com", "class", "wide"),
		)

	c.Class("accounts.Account").
		Extends("accounts.Base").
		Meta(annotation.NewType("form"), annotation.NewName("account")).
		Property("username",
			annotation.NewRequired(true),
			annotation.NewFlags(5),
			annotation.NewValidator("StringLength", "min", 3),
		).
		Property("email", annotation.NewAttributes("type", "email", "class", "narrow")).
		Property("address", annotation.NewComposedObject("accounts.Location", false))

	c.Class("accounts.Location").
		Property("city", annotation.NewRequired(true))

	return c
}

func TestHierarchy_Merge(t *testing.T) {
	b := New(WithProvider(accountCatalog()))

	sp, err := b.GetFormSpecification("accounts.Account")
	require.NoError(t, err)

	assert.Equal(t, "account", sp.Name)
	assert.Equal(t, spec.NodeForm, sp.Kind)
	assert.Equal(t, []string{"username", "email", "address"}, sp.Children.Keys())

	class, _ := sp.Attribute("class")
	assert.Equal(t, "base", class)

	email, ok := sp.Child("email")
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"placeholder": "you@example.com",
		"class":       "narrow",
		"type":        "email",
	}, annotation.ValuesMap(email.Attributes))

	require.NotNil(t, email.Input)
	assert.True(t, email.Input.Required)
	require.Len(t, email.Input.Validators, 1)
	assert.Equal(t, "EmailAddress", email.Input.Validators[0].Name)

	address, ok := sp.Child("address")
	require.True(t, ok)
	assert.Equal(t, spec.NodeFieldset, address.Kind)
	assert.Equal(t, "accounts.Location", address.Class.String())

	city, ok := address.Input.Input("city")
	require.True(t, ok)
	assert.True(t, city.Required)
}

func TestHierarchy_DescendantValidatorsReplace(t *testing.T) {
	c := accountCatalog()
	c.Class("accounts.Account").Property("email", annotation.NewValidator("Hostname"))

	sp, err := New(WithProvider(c)).GetFormSpecification("accounts.Account")
	require.NoError(t, err)

	email, ok := sp.Input.Input("email")
	require.True(t, ok)
	require.Len(t, email.Validators, 1)
	assert.Equal(t, "Hostname", email.Validators[0].Name)
	assert.True(t, email.Required)
}

func TestAttributes_LastWriteWins(t *testing.T) {
	c := annotation.NewCatalog()
	c.Class("Contact").Property("email",
		annotation.NewAttributes("a", 1, "b", 2),
		annotation.NewAttributes("b", 3, "c", 4),
	)

	sp, err := New(WithProvider(c)).GetFormSpecification("Contact")
	require.NoError(t, err)

	email, ok := sp.Child("email")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": 1, "b": 3, "c": 4}, annotation.ValuesMap(email.Attributes))
}

func TestInputDefaults(t *testing.T) {
	c := annotation.NewCatalog()
	c.Class("Contact").
		Property("plain").
		Property("required", annotation.NewRequired(true)).
		Property("lenient", annotation.NewRequired(true), annotation.NewAllowEmpty(true)).
		Property("flagged", annotation.Item{Kind: annotation.KindFlags, Payload: annotation.Flags{Required: ptr(true)}}).
		Property("strict", annotation.NewContinueIfEmpty(false), annotation.NewErrorMessage("nope")).
		Property("hidden", annotation.NewNoInput()).
		Property("custom", annotation.NewInput("trimmed"))

	sp, err := New(WithProvider(c)).GetFormSpecification("Contact")
	require.NoError(t, err)

	tests := []struct {
		name            string
		required        bool
		allowEmpty      bool
		continueIfEmpty bool
	}{
		{"plain", false, true, true},
		{"required", true, false, true},
		{"lenient", true, true, true},
		{"flagged", true, false, true},
		{"strict", false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, ok := sp.Input.Input(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.required, in.Required)
			assert.Equal(t, tt.allowEmpty, in.AllowEmpty)
			assert.Equal(t, tt.continueIfEmpty, in.ContinueIfEmpty)
		})
	}

	strict, _ := sp.Input.Input("strict")
	assert.Equal(t, "nope", strict.ErrorMessage)

	assert.True(t, sp.Children.Has("hidden"))
	assert.False(t, sp.Input.Inputs.Has("hidden"))

	custom, _ := sp.Input.Input("custom")
	assert.Equal(t, "trimmed", custom.Type)
}

func ptr[T any](v T) *T { return &v }

func TestExclude(t *testing.T) {
	c := annotation.NewCatalog()
	c.Class("Base").Property("secret", annotation.NewExclude()).Property("token")
	c.Class("Child").Extends("Base").
		Meta(annotation.NewExclude("token")).
		Property("secret", annotation.NewType("password")).
		Property("name")

	sp, err := New(WithProvider(c)).GetFormSpecification("Child")
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, sp.Children.Keys())
	assert.Equal(t, []string{"name"}, sp.Input.Inputs.Keys())
}

func TestAmbiguousType(t *testing.T) {
	c := annotation.NewCatalog()
	c.Class("Broken").Meta(annotation.NewType("form"), annotation.NewType("fieldset")).Property("x")

	_, err := New(WithProvider(c)).GetFormSpecification("Broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, annotation.ErrAmbiguousType)

	var ate *annotation.AmbiguousTypeError
	require.True(t, errors.As(err, &ate))
	assert.Equal(t, []string{"form", "fieldset"}, ate.Types)
	assert.Equal(t, "Broken", ate.Class)
}

func TestTypeOverrideAcrossLevels(t *testing.T) {
	c := annotation.NewCatalog()
	c.Class("Base").Meta(annotation.NewType("fieldset"))
	c.Class("Child").Extends("Base").Meta(annotation.NewType("form")).Property("x")

	sp, err := New(WithProvider(c)).GetFormSpecification("Child")
	require.NoError(t, err)
	assert.Equal(t, spec.NodeForm, sp.Kind)
	assert.Equal(t, "form", sp.Type)

	infos := sp.Diagnostics.Infos
	require.Len(t, infos, 1)
	assert.Equal(t, diagnostic.CodeInheritedOverride, infos[0].Code)
}

type cycleA struct {
	Name string
	B    *cycleB `form:"composed_object"`
}

type cycleB struct {
	A *cycleA `form:"composed_object"`
}

func TestCompositionCycle(t *testing.T) {
	_, err := New().GetFormSpecification(cycleA{})
	require.Error(t, err)
	assert.ErrorIs(t, err, annotation.ErrCompositionCycle)

	var cce *annotation.CompositionCycleError
	require.True(t, errors.As(err, &cce))
	require.Len(t, cce.Path, 3)
	assert.Equal(t, cce.Path[0], cce.Path[2])
	assert.Contains(t, cce.Path[1], "cycleB")
}

type twoAddresses struct {
	Home accounts.Address `form:"composed_object"`
	Work accounts.Address `form:"composed_object"`
}

func TestCompositionSiblingsAreNotCycles(t *testing.T) {
	sp, err := New().GetFormSpecification(twoAddresses{})
	require.NoError(t, err)

	for _, name := range []string{"home", "work"} {
		child, ok := sp.Child(name)
		require.True(t, ok, name)
		assert.Equal(t, []string{"street", "city", "postal_code"}, child.Children.Keys())
	}
}

func TestComposition_UnknownTarget(t *testing.T) {
	c := accountCatalog()
	c.Class("accounts.Account").Property("address", annotation.NewComposedObject("accounts.Locaton", false))

	_, err := New(WithProvider(c)).GetFormSpecification("accounts.Account")
	require.Error(t, err)

	var mre *annotation.MetadataResolutionError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "accounts.Account", mre.Class)
	assert.Equal(t, "address", mre.Member)
	assert.Contains(t, mre.Suggestions, "accounts.Location")
}

func TestComposition_ItemsApplyOverNested(t *testing.T) {
	c := annotation.NewCatalog()
	c.Class("Location").
		Meta(annotation.NewAttributes("class", "location", "id", "loc"), annotation.NewOptions("label", "Location")).
		Property("city")
	c.Class("Order").Property("shipping",
		annotation.NewComposedObject("Location", false, "label", "Ship to"),
		annotation.NewAttributes("class", "shipping"),
		annotation.NewFlags(9),
		annotation.NewHydrator(hydratorClassMethods, "underscore_separated_keys", true),
	)

	sp, err := New(WithProvider(c)).GetFormSpecification("Order")
	require.NoError(t, err)

	shipping, ok := sp.Child("shipping")
	require.True(t, ok)
	assert.Equal(t, "shipping", shipping.Name)
	assert.Equal(t, 9, shipping.Priority)
	assert.Equal(t, map[string]any{"class": "shipping", "id": "loc"}, annotation.ValuesMap(shipping.Attributes))
	assert.Equal(t, map[string]any{"label": "Ship to"}, annotation.ValuesMap(shipping.Options))

	require.NotNil(t, shipping.Hydrator)
	assert.Equal(t, hydratorClassMethods, shipping.Hydrator.Type)
	assert.Equal(t, map[string]any{"underscore_separated_keys": true}, annotation.ValuesMap(shipping.Hydrator.Options))

	in, ok := sp.Input.Input("shipping")
	require.True(t, ok)
	assert.Equal(t, spec.InputFilterKind, in.Kind)
	assert.True(t, in.Inputs.Has("city"))
}

const hydratorClassMethods = "class_methods"

func TestLegacyShape(t *testing.T) {
	type legacyFilter struct {
		Name string `form:"filter: [{name: StringTrim}, {name: StripTags}]"`
	}

	type legacyHydrator struct {
		_    struct{} `form:"hydrator: [object_property]"`
		Name string
	}

	type legacyComposed struct {
		Home accounts.Address `form:"composed_object: [accounts.Address]"`
	}

	type legacyExcluded struct {
		_    struct{} `form:"exclude: [Name]"`
		Name string   `form:"filter: [{name: StringTrim}, {name: StripTags}]"`
	}

	for _, v := range []any{legacyFilter{}, legacyHydrator{}, legacyComposed{}, legacyExcluded{}} {
		_, err := New().GetFormSpecification(v)
		require.Error(t, err)
		assert.ErrorIs(t, err, annotation.ErrDeprecatedUsage)
		assert.Contains(t, err.Error(), "Passing a single array")
		assert.Contains(t, err.Error(), "is deprecated")
	}

	c := annotation.NewCatalog()
	c.Class("Legacy").Property("name",
		annotation.NewRequired(true),
		annotation.Item{Kind: annotation.KindValidator, Payload: []annotation.Validator{{Name: "NotEmpty"}}},
	)

	_, err := New(WithProvider(c)).GetFormSpecification("Legacy")
	require.Error(t, err)

	var due *annotation.DeprecatedUsageError
	require.True(t, errors.As(err, &due))
	assert.Equal(t, annotation.KindValidator, due.Kind)
	assert.Equal(t, "Legacy.name", due.Location)
}

func TestDiagnostics(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	c := annotation.NewCatalog()
	c.Class("Contact").
		Meta(
			annotation.NewRequired(true),
			annotation.NewValidationGroup("email", "phone"),
			annotation.NewHydrator("object_propery"),
		).
		PropertyOf(annotation.Member{Name: "Email", ElementName: "email"}, annotation.NewAttributes("a", 1)).
		PropertyOf(annotation.Member{Name: "EmailAddress", ElementName: "email"}, annotation.NewAttributes("b", 2)).
		Property("name", annotation.Item{Kind: "validatr", Payload: "NotEmpty"}, annotation.NewHydrator("object_property"))

	sp, err := New(WithProvider(c), WithLogger(zap.New(core))).GetFormSpecification("Contact")
	require.NoError(t, err)
	require.NotNil(t, sp.Diagnostics)

	byCode := make(map[string][]diagnostic.Diagnostic)
	for _, d := range sp.Diagnostics.All() {
		byCode[d.Code] = append(byCode[d.Code], d)
	}

	require.Len(t, byCode[diagnostic.CodeNameCollision], 1)
	email, ok := sp.Child("email")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, annotation.ValuesMap(email.Attributes))
	assert.Equal(t, 2, sp.Children.Len())

	require.Len(t, byCode[diagnostic.CodeUnknownKind], 1)
	assert.Contains(t, byCode[diagnostic.CodeUnknownKind][0].Suggestions, "validator")
	assert.Equal(t, "name", byCode[diagnostic.CodeUnknownKind][0].Member)

	require.Len(t, byCode[diagnostic.CodeUnboundGroup], 1)
	assert.Contains(t, byCode[diagnostic.CodeUnboundGroup][0].Message, "phone")

	require.Len(t, byCode[diagnostic.CodeUnknownHydrator], 1)
	assert.Contains(t, byCode[diagnostic.CodeUnknownHydrator][0].Suggestions, "object_property")

	assert.Len(t, byCode[diagnostic.CodeIgnoredItem], 2)
	assert.False(t, sp.Diagnostics.HasErrors())

	assert.Equal(t, len(sp.Diagnostics.Warnings), logs.Len())
	assert.Equal(t, 1, logs.FilterField(zap.String("code", diagnostic.CodeNameCollision)).Len())
}

func TestKindHandler(t *testing.T) {
	const placeholder annotation.Kind = "placeholder"

	c := annotation.NewCatalog()
	c.Class("Contact").
		Meta(annotation.Item{Kind: placeholder, Payload: "form"}).
		Property("email", annotation.Item{Kind: placeholder, Payload: "you@example.com"})

	b := New(WithProvider(c), WithKindHandler(placeholder, func(node *spec.ElementSpec, item annotation.Item) error {
		node.Attributes.Set("placeholder", item.Payload)

		return nil
	}))

	sp, err := b.GetFormSpecification("Contact")
	require.NoError(t, err)
	assert.Zero(t, sp.Diagnostics.Len())

	v, _ := sp.Attribute("placeholder")
	assert.Equal(t, "form", v)

	email, _ := sp.Child("email")
	v, _ = email.Attribute("placeholder")
	assert.Equal(t, "you@example.com", v)

	failing := New(WithProvider(c), WithKindHandler(placeholder, func(*spec.ElementSpec, annotation.Item) error {
		return errors.New("boom")
	}))

	_, err = failing.GetFormSpecification("Contact")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestWrongPayload(t *testing.T) {
	c := annotation.NewCatalog()
	c.Class("Contact").Property("email", annotation.Item{Kind: annotation.KindRequired, Payload: "yes"})

	_, err := New(WithProvider(c)).GetFormSpecification("Contact")
	require.Error(t, err)
	assert.ErrorIs(t, err, annotation.ErrMetadataResolution)
}

type boundForm struct {
	_ struct{} `form:"object: accounts.Credentials"`

	Username string
	Password string
}

func TestObjectBinding(t *testing.T) {
	p := annotation.NewReflectProvider()
	require.NoError(t, p.Register(accounts.Credentials{}))

	b := New(WithProvider(p))

	sp, err := b.GetFormSpecification((*boundForm)(nil))
	require.NoError(t, err)
	assert.IsType(t, &accounts.Credentials{}, sp.Object)

	f, err := b.Realize(sp)
	require.NoError(t, err)

	fs, ok := f.(interface{ Object() any })
	require.True(t, ok)
	assert.Same(t, sp.Object, fs.Object())

	c := annotation.NewCatalog()
	c.Class("Contact").Meta(annotation.NewObject("Contact")).Property("email")

	sp, err = New(WithProvider(c)).GetFormSpecification("Contact")
	require.NoError(t, err)
	assert.Nil(t, sp.Object)
	require.Len(t, sp.Diagnostics.Warnings, 1)
	assert.Equal(t, diagnostic.CodeMissingObject, sp.Diagnostics.Warnings[0].Code)
}
