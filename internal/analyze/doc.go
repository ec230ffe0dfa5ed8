// Package analyze loads Go packages from source and reads form metadata
// from their struct declarations.
//
// LoadGraph uses golang.org/x/tools/go/packages to build a Graph of the
// named types declared by the loaded packages, without compiling them into
// the running program. A Node records the shape of a type; struct nodes keep
// their exported and blank fields with raw tags. SourceProvider exposes the
// graph as an annotation.Provider.
package analyze
