// Package export renders a form specification for inspection.
//
// The yaml, json and spew formats render the plain mapping returned by
// spec.ElementSpec.Map. The jsonschema format derives a JSON Schema describing
// the data a form accepts: containers become objects whose properties keep
// the element order, collections become arrays of their target element and
// plain elements become strings, booleans or numbers depending on their
// type. Required inputs, StringLength and EmailAddress validators, labels
// and value options are carried over as schema keywords.
package export
