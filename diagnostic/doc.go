// Package diagnostic records non-fatal findings of a specification build.
//
// Fatal conditions are returned as errors by the builder; everything else
// (unknown metadata kinds, name collisions, ignored items) is kept here and
// attached to the specification node it concerns.
package diagnostic
