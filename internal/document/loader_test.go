package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"formspec/annotation"
	"formspec/builder"
	"formspec/spec"
)

const accountsDocument = "../../examples/accounts/catalog.yaml"

func TestLoadFile(t *testing.T) {
	doc, err := LoadFile(accountsDocument)
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, doc.Version)
	require.Len(t, doc.Classes, 3)
	assert.Equal(t, "accounts.Account", doc.Classes[1].Name)
	assert.Equal(t, Names{"accounts.Base"}, doc.Classes[1].Extends)
	assert.Len(t, doc.Classes[1].Properties, 3)

	_, err = LoadFile("testdata/missing.yaml")
	require.Error(t, err)
}

func TestLoadCatalog_Builds(t *testing.T) {
	cat, err := LoadCatalog(accountsDocument, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"accounts.Account", "accounts.Base", "accounts.Location"}, cat.Classes())

	sp, err := builder.New(builder.WithProvider(cat)).GetFormSpecification("accounts.Account")
	require.NoError(t, err)

	assert.Equal(t, "account", sp.Name)
	assert.Equal(t, spec.NodeForm, sp.Kind)
	assert.Equal(t, []string{"username", "email", "address"}, sp.Children.Keys())

	email, ok := sp.Input.Input("email")
	require.True(t, ok)
	assert.True(t, email.Required)
	require.Len(t, email.Validators, 1)
	assert.Equal(t, "EmailAddress", email.Validators[0].Name)

	address, ok := sp.Child("address")
	require.True(t, ok)
	assert.Equal(t, spec.NodeFieldset, address.Kind)
	assert.True(t, address.Children.Has("city"))
}

func TestParse_Properties(t *testing.T) {
	doc, err := Parse([]byte(`
classes:
  - name: Order
    properties:
      - name: Lines
        element: lines
        class: Line
        collection: true
        metadata:
          - composed_object: {options: {count: 2}}
  - name: Line
    properties:
      - name: sku
        metadata: [required]
`))
	require.NoError(t, err)

	cat, err := Build(doc, nil)
	require.NoError(t, err)

	members, err := cat.Members(annotation.ParseClassRef("Order"))
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, annotation.Member{
		Name:        "Lines",
		ElementName: "lines",
		Elem:        annotation.ParseClassRef("Line"),
		Collection:  true,
	}, members[0])

	sp, err := builder.New(builder.WithProvider(cat)).GetFormSpecification("Order")
	require.NoError(t, err)

	lines, ok := sp.Child("lines")
	require.True(t, ok)
	assert.Equal(t, spec.NodeCollection, lines.Kind)
	require.NotNil(t, lines.TargetElement)
	assert.True(t, lines.TargetElement.Children.Has("sku"))
}

func TestValidate(t *testing.T) {
	doc, err := Parse([]byte(`
version: "2"
classes:
  - name: Account
    extends: Acount
    properties:
      - name: email
      - name: email
      - metadata: [required]
  - name: Account
    metadata:
      - filter: [{name: StringTrim}]
  - name: Broken
    metadata: {type: form}
  - properties: []
`))
	require.NoError(t, err)

	diags := Validate(doc, nil)
	require.True(t, diags.HasErrors())

	codes := make(map[string]int)
	for _, d := range diags.Errors {
		codes[d.Code]++
	}

	assert.Equal(t, 1, codes[CodeUnsupportedVersion])
	assert.Equal(t, 1, codes[CodeDuplicateClass])
	assert.Equal(t, 1, codes[CodeDuplicateMember])
	assert.Equal(t, 2, codes[CodeMissingName])
	assert.Equal(t, 1, codes[CodeUnknownParent])
	assert.Equal(t, 1, codes[CodeInvalidMetadata])

	for _, d := range diags.Errors {
		if d.Code == CodeUnknownParent {
			assert.Equal(t, []string{"Account"}, d.Suggestions)
		}
	}

	_, err = Build(doc, nil)
	require.Error(t, err)
}

func TestNames_YAML(t *testing.T) {
	var v struct {
		One  Names `yaml:"one"`
		Many Names `yaml:"many"`
		None Names `yaml:"none"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("one: Base\nmany: [A, B]\nnone: ''\n"), &v))
	assert.Equal(t, Names{"Base"}, v.One)
	assert.Equal(t, Names{"A", "B"}, v.Many)
	assert.Empty(t, v.None)
	assert.NotNil(t, v.None)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "one: Base\n")

	var bad Names
	require.Error(t, yaml.Unmarshal([]byte("{a: b}"), &bad))
}

func TestMarshal_RoundTrip(t *testing.T) {
	doc, err := LoadFile(accountsDocument)
	require.NoError(t, err)

	data, err := Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	again, err := LoadCatalog(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"accounts.Account", "accounts.Base", "accounts.Location"}, again.Classes())
}

func TestLoadCatalogs(t *testing.T) {
	extra := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(extra, []byte(`
classes:
  - name: accounts.Guest
    extends: accounts.Base
    properties:
      - name: nickname
`), 0o644))

	cat, err := LoadCatalogs([]string{accountsDocument, extra}, nil)
	require.NoError(t, err)
	assert.Contains(t, cat.Classes(), "accounts.Guest")

	sp, err := builder.New(builder.WithProvider(cat)).GetFormSpecification("accounts.Guest")
	require.NoError(t, err)
	assert.Equal(t, []string{"nickname", "email"}, sp.Children.Keys())

	_, err = LoadCatalogs([]string{accountsDocument, accountsDocument}, nil)
	require.Error(t, err)
}
