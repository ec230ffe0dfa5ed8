package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"formspec/annotation"
	"formspec/spec"
)

// Format selects a renderer.
type Format string

const (
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatSpew   Format = "spew"
	FormatSchema Format = "jsonschema"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatYAML, FormatJSON, FormatSpew, FormatSchema}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Formats(), f) {
		return f, nil
	}

	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}

	return "", fmt.Errorf("unknown format %q, expected one of %s", s, strings.Join(names, ", "))
}

// Render renders sp in format f.
func Render(sp *spec.ElementSpec, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		return YAML(sp)
	case FormatJSON:
		return JSON(sp)
	case FormatSpew:
		return []byte(Dump(sp)), nil
	case FormatSchema:
		return json.MarshalIndent(Schema(sp), "", "  ")
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
}

// YAML renders the mapping of sp as YAML.
func YAML(sp *spec.ElementSpec) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(sp.Map()); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}

	return buf.Bytes(), nil
}

// JSON renders the mapping of sp as indented JSON.
func JSON(sp *spec.ElementSpec) ([]byte, error) {
	out, err := json.MarshalIndent(sp.Map(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return out, nil
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders the mapping of sp as a Go value dump.
func Dump(sp *spec.ElementSpec) string {
	return dumper.Sdump(sp.Map())
}

// Schema derives a JSON Schema for the data accepted by sp.
func Schema(sp *spec.ElementSpec) *jsonschema.Schema {
	s := schemaOf(sp)
	if s == nil {
		return nil
	}

	s.Version = jsonschema.Version
	if s.Title == "" {
		s.Title = sp.Name
	}

	return s
}

func schemaOf(sp *spec.ElementSpec) *jsonschema.Schema {
	if sp == nil {
		return nil
	}

	var s *jsonschema.Schema

	switch sp.Kind {
	case spec.NodeForm, spec.NodeFieldset:
		s = objectSchema(sp)
	case spec.NodeCollection:
		s = &jsonschema.Schema{Type: "array", Items: schemaOf(sp.TargetElement)}
	default:
		s = elementSchema(sp)
	}

	if label, ok := option(sp, "label"); ok {
		s.Title = cast.ToString(label)
	}

	if desc, ok := option(sp, "description"); ok {
		s.Description = cast.ToString(desc)
	}

	if sp.Input == nil {
		s.ReadOnly = true
	}

	return s
}

func objectSchema(sp *spec.ElementSpec) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties()}

	if sp.Children == nil {
		return s
	}

	for name, child := range sp.Children.All() {
		s.Properties.Set(name, schemaOf(child))

		if child.Input != nil && child.Input.Required {
			s.Required = append(s.Required, name)
		}
	}

	return s
}

func elementSchema(sp *spec.ElementSpec) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "string"}

	switch sp.Type {
	case "checkbox":
		s.Type = "boolean"
	case "number", "range":
		s.Type = "number"
	case "email":
		s.Format = "email"
	case "url":
		s.Format = "uri"
	case "date":
		s.Format = "date"
	case "datetime", "datetime-local":
		s.Format = "date-time"
	}

	if typ, ok := sp.Attribute("type"); ok && cast.ToString(typ) == "password" {
		s.WriteOnly = true
	}

	if v, ok := option(sp, "value_options"); ok {
		s.Enum = enumOf(v)
	}

	if sp.Input == nil {
		return s
	}

	for _, v := range sp.Input.Validators {
		switch v.Name {
		case "EmailAddress":
			s.Format = "email"
		case "StringLength":
			if n := length(v.Options, "min"); n != nil {
				s.MinLength = n
			}

			if n := length(v.Options, "max"); n != nil {
				s.MaxLength = n
			}
		case "NotEmpty":
			if s.MinLength == nil && s.Type == "string" {
				one := uint64(1)
				s.MinLength = &one
			}
		}
	}

	return s
}

func option(sp *spec.ElementSpec, key string) (any, bool) {
	if sp.Options == nil {
		return nil, false
	}

	return sp.Options.Get(key)
}

func length(opts *annotation.Values, key string) *uint64 {
	if opts == nil {
		return nil
	}

	v, ok := opts.Get(key)
	if !ok {
		return nil
	}

	n, err := cast.ToUint64E(v)
	if err != nil {
		return nil
	}

	return &n
}

// enumOf returns the keys of a value_options mapping, or the entries of a
// list.
func enumOf(v any) []any {
	switch x := v.(type) {
	case *annotation.Values:
		out := make([]any, 0, x.Len())
		for p := x.Oldest(); p != nil; p = p.Next() {
			out = append(out, p.Key)
		}

		return out
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = k
		}

		return out
	case []any:
		return x
	}

	return nil
}
