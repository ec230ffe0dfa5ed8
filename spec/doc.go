// Package spec holds the intermediate representation produced by the
// builder: a tree of ElementSpec nodes (forms, fieldsets, elements and
// collections), each carrying a parallel InputSpec that describes its
// validation counterpart.
//
// Nodes are built once per build call and are not mutated after assembly.
// Map renders a node as a plain nested mapping for inspection and export.
package spec
