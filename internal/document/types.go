package document

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the root of a metadata document.
type Document struct {
	Version string      `yaml:"version,omitempty"`
	Classes []ClassDecl `yaml:"classes"`
}

// ClassDecl declares one class. Metadata and property metadata are kept as
// raw nodes and decoded through the kind registry.
type ClassDecl struct {
	Name       string         `yaml:"name"`
	Extends    Names          `yaml:"extends,omitempty"`
	Metadata   yaml.Node      `yaml:"metadata,omitempty"`
	Properties []PropertyDecl `yaml:"properties,omitempty"`
}

// PropertyDecl declares one member of a class. Class names the composed
// class of a fieldset or collection member.
type PropertyDecl struct {
	Name       string    `yaml:"name"`
	Element    string    `yaml:"element,omitempty"`
	Class      string    `yaml:"class,omitempty"`
	Collection bool      `yaml:"collection,omitempty"`
	Metadata   yaml.Node `yaml:"metadata,omitempty"`
}

// Names is a list of class names written either as one scalar or as a
// sequence. An empty scalar is an empty list.
type Names []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Names) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}

		*n = list

		return nil
	}

	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a class name or a list of names", node.Line)
	}

	*n = Names{}
	if node.Value != "" {
		*n = append(*n, node.Value)
	}

	return nil
}

// MarshalYAML writes a single name as a scalar.
func (n Names) MarshalYAML() (any, error) {
	if len(n) == 1 {
		return n[0], nil
	}

	return []string(n), nil
}
