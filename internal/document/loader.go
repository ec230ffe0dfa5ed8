package document

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"formspec/annotation"
	"formspec/diagnostic"
	"formspec/internal/naming"
)

// Document diagnostic codes.
const (
	CodeMissingName        = "missing_name"
	CodeDuplicateClass     = "duplicate_class"
	CodeDuplicateMember    = "duplicate_property"
	CodeUnknownParent      = "unknown_parent"
	CodeInvalidMetadata    = "invalid_metadata"
	CodeUnsupportedVersion = "unsupported_version"
)

// CurrentVersion is the document version written and accepted.
const CurrentVersion = "1"

// LoadFile loads and parses a metadata document from the given path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata document %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Document.
func Parse(data []byte) (*Document, error) {
	var doc Document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse metadata document: %w", err)
	}

	if doc.Version == "" {
		doc.Version = CurrentVersion
	}

	return &doc, nil
}

// Validate checks the structure of doc: names, duplicates, parents and
// metadata syntax. kinds decodes the metadata; nil means the default kinds.
func Validate(doc *Document, kinds *annotation.KindRegistry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if doc == nil {
		res.AddError(CodeMissingName, "document is nil", "", "")

		return res
	}

	if doc.Version != CurrentVersion {
		res.AddError(CodeUnsupportedVersion, fmt.Sprintf("unsupported version %q", doc.Version), "", "")
	}

	declared := make(map[string]bool, len(doc.Classes))
	names := make([]string, 0, len(doc.Classes))

	for i := range doc.Classes {
		name := doc.Classes[i].Name
		if name == "" {
			res.AddError(CodeMissingName, fmt.Sprintf("class #%d has no name", i+1), "", "")

			continue
		}

		if declared[name] {
			res.AddError(CodeDuplicateClass, fmt.Sprintf("class %q is declared twice", name), name, "")

			continue
		}

		declared[name] = true
		names = append(names, name)
	}

	for i := range doc.Classes {
		cd := &doc.Classes[i]
		if cd.Name == "" {
			continue
		}

		for _, parent := range cd.Extends {
			if !declared[parent] {
				res.Add(diagnostic.Diagnostic{
					Severity:    diagnostic.SeverityError,
					Code:        CodeUnknownParent,
					Message:     fmt.Sprintf("extends unknown class %q", parent),
					Class:       cd.Name,
					Suggestions: naming.Suggest(parent, names, 3),
				})
			}
		}

		if _, err := parseMetadata(&cd.Metadata, kinds); err != nil {
			res.AddError(CodeInvalidMetadata, err.Error(), cd.Name, "")
		}

		seen := make(map[string]bool, len(cd.Properties))

		for j := range cd.Properties {
			pd := &cd.Properties[j]
			if pd.Name == "" {
				res.AddError(CodeMissingName, fmt.Sprintf("property #%d has no name", j+1), cd.Name, "")

				continue
			}

			if seen[pd.Name] {
				res.AddError(CodeDuplicateMember, fmt.Sprintf("property %q is declared twice", pd.Name), cd.Name, pd.Name)
			}

			seen[pd.Name] = true

			if _, err := parseMetadata(&pd.Metadata, kinds); err != nil {
				res.AddError(CodeInvalidMetadata, err.Error(), cd.Name, pd.Name)
			}
		}
	}

	return res
}

// Build validates doc and declares its classes in a new catalog.
func Build(doc *Document, kinds *annotation.KindRegistry) (*annotation.Catalog, error) {
	if diags := Validate(doc, kinds); diags.HasErrors() {
		return nil, fmt.Errorf("invalid metadata document: %w", diags.Error())
	}

	cat := annotation.NewCatalog()

	for i := range doc.Classes {
		cd := &doc.Classes[i]

		items, err := parseMetadata(&cd.Metadata, kinds)
		if err != nil {
			return nil, err
		}

		cc := cat.Class(cd.Name).Extends(cd.Extends...).Meta(items...)

		for j := range cd.Properties {
			pd := &cd.Properties[j]

			items, err := parseMetadata(&pd.Metadata, kinds)
			if err != nil {
				return nil, err
			}

			m := annotation.Member{Name: pd.Name, ElementName: pd.Element, Collection: pd.Collection}
			if pd.Class != "" {
				m.Elem = annotation.ParseClassRef(pd.Class)
			}

			cc.PropertyOf(m, items...)
		}
	}

	return cat, nil
}

// LoadCatalog loads the document at path into a catalog.
func LoadCatalog(path string, kinds *annotation.KindRegistry) (*annotation.Catalog, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	return Build(doc, kinds)
}

// LoadCatalogs loads several documents into one catalog. Class names must be
// unique across all of them.
func LoadCatalogs(paths []string, kinds *annotation.KindRegistry) (*annotation.Catalog, error) {
	merged := &Document{Version: CurrentVersion}

	for _, path := range paths {
		doc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}

		if doc.Version != CurrentVersion {
			return nil, fmt.Errorf("metadata document %s: unsupported version %q", path, doc.Version)
		}

		merged.Classes = append(merged.Classes, doc.Classes...)
	}

	return Build(merged, kinds)
}

// Marshal serializes a Document to YAML.
func Marshal(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// parseMetadata decodes a metadata list. An absent list decodes to nothing.
func parseMetadata(node *yaml.Node, kinds *annotation.KindRegistry) ([]annotation.Item, error) {
	if node.Kind == 0 {
		return nil, nil
	}

	return annotation.ParseEntries(node, kinds)
}
