// Package naming provides identifier tokenization, case conversion and
// edit-distance suggestions.
//
// Key functions:
//   - Normalize: case- and separator-insensitive form used for key matching
//   - LowerCamel / Snake: element names and hydrator key translation
//   - Levenshtein / Suggest: "did you mean" hints for unresolved references
package naming
