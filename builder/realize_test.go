package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formspec/annotation"
	"formspec/form"
	"formspec/hydrator"
	"formspec/inputfilter"
)

func TestRealize_CustomTypes(t *testing.T) {
	forms := form.NewFactory()
	forms.Register("rich_text", func(name string) form.Element { return form.NewBasic("rich_text", name) })

	inputs := inputfilter.NewFactory()
	inputs.Register("trimmed", func(name string) inputfilter.Entry { return inputfilter.NewInput(name) })

	c := annotation.NewCatalog()
	c.Class("Post").
		Property("body", annotation.NewType("rich_text"), annotation.NewInput("trimmed"), annotation.NewOptions("rows", 10)).
		Property("title", annotation.NewFilter("StringTrim"), annotation.NewValidator("NotEmpty"))

	b := New(WithProvider(c), WithFormFactory(forms), WithInputFilterFactory(inputs))

	f, err := b.CreateForm("Post")
	require.NoError(t, err)

	body, ok := f.Get("body")
	require.True(t, ok)
	assert.Equal(t, "rich_text", body.Type())

	rows, _ := body.Option("rows")
	assert.Equal(t, 10, rows)

	title := getInput(t, f.InputFilter(), "title")
	assert.Equal(t, []string{"StringTrim"}, title.Filters().Names())
	assert.Equal(t, []string{"NotEmpty"}, title.Validators().Names())

	_, err = New(WithProvider(c)).CreateForm("Post")
	require.Error(t, err)
}

func TestRealize_Hydrator(t *testing.T) {
	c := annotation.NewCatalog()
	c.Class("Post").
		Meta(annotation.NewHydrator(hydrator.ClassMethodsID, "underscore_separated_keys", false)).
		Property("title")

	f, err := New(WithProvider(c)).CreateForm("Post")
	require.NoError(t, err)
	assert.IsType(t, &hydrator.ClassMethods{}, f.Hydrator())

	c.Class("Post").Meta(annotation.NewHydrator("reflection"))

	_, err = New(WithProvider(c)).CreateForm("Post")
	require.Error(t, err)

	c.Class("Post").Meta(annotation.NewHydrator(hydrator.ObjectPropertyID, "unknown_option", true))

	_, err = New(WithProvider(c)).CreateForm("Post")
	require.Error(t, err)
}

func TestRealize_RootMustBeForm(t *testing.T) {
	c := annotation.NewCatalog()
	c.Class("Post").Meta(annotation.NewType("fieldset")).Property("title")

	b := New(WithProvider(c))

	sp, err := b.GetFormSpecification("Post")
	require.NoError(t, err)

	el, err := b.Realize(sp)
	require.NoError(t, err)
	assert.IsType(t, &form.Fieldset{}, el)

	_, err = b.CreateForm("Post")
	require.Error(t, err)
}

func TestRealize_ValidationGroup(t *testing.T) {
	c := annotation.NewCatalog()
	c.Class("Post").
		Meta(annotation.NewValidationGroup("title")).
		Property("title").
		Property("body")

	f, err := New(WithProvider(c)).CreateForm("Post")
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, f.ValidationGroup())
}
