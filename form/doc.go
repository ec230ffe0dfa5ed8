// Package form implements the live presentation tree: elements, fieldsets,
// collections and forms.
//
// Containers keep their children in a ledger, so iteration follows the same
// priority or declared order as the specification they were built from.
// Fieldsets may be bound to an object; values move between the object and
// the tree through a hydrator.
package form
