package spec

//go:generate go tool stringer -type=NodeKind -linecomment -output=nodekind_string.go

// NodeKind is the structural role of an ElementSpec.
type NodeKind int

const (
	_ NodeKind = iota // zero value is invalid

	NodeForm       // form
	NodeFieldset   // fieldset
	NodeElement    // element
	NodeCollection // collection
)

// IsContainer reports whether nodes of this kind hold children.
func (k NodeKind) IsContainer() bool {
	return k == NodeForm || k == NodeFieldset
}

// InputKind is the structural role of an InputSpec.
type InputKind string

const (
	InputSingle     InputKind = "input"
	InputFilterKind InputKind = "input_filter"
	InputCollection InputKind = "collection"
)
