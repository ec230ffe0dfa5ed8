package annotation

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTagKey is the struct tag key read by providers.
const DefaultTagKey = "form"

// ParseTag decodes the metadata entries of one struct tag value.
// Entries keep their declaration order.
func ParseTag(tag string, kinds *KindRegistry) ([]Item, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, nil
	}

	src := tag
	if !strings.HasPrefix(src, "[") {
		src = "[" + src + "]"
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("parse tag %q: %w", tag, err)
	}

	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parse tag %q: expected a list of entries", tag)
	}

	items, err := ParseEntries(doc.Content[0], kinds)
	if err != nil {
		return nil, fmt.Errorf("parse tag %q: %w", tag, err)
	}

	return items, nil
}

// ParseEntries decodes a YAML sequence of metadata entries. An entry is a
// bare kind or a mapping of kinds to payloads.
func ParseEntries(seq *yaml.Node, kinds *KindRegistry) ([]Item, error) {
	if kinds == nil {
		kinds = DefaultKinds()
	}

	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a list of entries at line %d", seq.Line)
	}

	var items []Item

	for _, entry := range seq.Content {
		switch entry.Kind {
		case yaml.ScalarNode:
			it, err := kinds.Decode(Kind(entry.Value), nil)
			if err != nil {
				return nil, err
			}

			items = append(items, it)
		case yaml.MappingNode:
			for i := 0; i+1 < len(entry.Content); i += 2 {
				it, err := kinds.Decode(Kind(entry.Content[i].Value), entry.Content[i+1])
				if err != nil {
					return nil, err
				}

				items = append(items, it)
			}
		default:
			return nil, fmt.Errorf("unexpected entry at line %d, column %d", entry.Line, entry.Column)
		}
	}

	return items, nil
}
