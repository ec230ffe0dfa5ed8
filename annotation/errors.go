package annotation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"formspec/internal/common"
	"formspec/internal/naming"
)

// Sentinel errors matched by errors.Is against the typed errors below.
var (
	ErrMetadataResolution = errors.New("metadata resolution failed")
	ErrAmbiguousType      = errors.New("ambiguous type override")
	ErrCompositionCycle   = errors.New("composition cycle")
	ErrDeprecatedUsage    = errors.New("deprecated metadata usage")
)

// MetadataResolutionError reports that metadata for a class or a member could
// not be obtained: unknown class, unreadable type, malformed tag.
type MetadataResolutionError struct {
	Class       string
	Member      string
	Reason      string
	Suggestions []string
	Err         error
}

func (e *MetadataResolutionError) Error() string {
	var b strings.Builder

	b.WriteString("metadata resolution failed")

	if e.Class != "" {
		b.WriteString(" for ")
		b.WriteString(e.Class)

		if e.Member != "" {
			b.WriteString(".")
			b.WriteString(e.Member)
		}
	}

	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	if len(e.Suggestions) > 0 {
		quoted := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}

		b.WriteString(" (did you mean ")
		b.WriteString(strings.Join(quoted, ", "))
		b.WriteString("?)")
	}

	return b.String()
}

func (e *MetadataResolutionError) Unwrap() error { return e.Err }

func (e *MetadataResolutionError) Is(target error) bool { return target == ErrMetadataResolution }

// UnknownClass builds the error for a class name that no provider knows,
// suggesting close matches among known.
func UnknownClass(name string, known []string) *MetadataResolutionError {
	return &MetadataResolutionError{
		Class:       name,
		Reason:      "unknown class",
		Suggestions: suggestClasses(name, known),
	}
}

// suggestClasses compares the query with the known names written the same
// way: bare names against bare names so that "Usr" suggests
// "example.com/app.User", and qualified ones against both the full and the
// package-alias form.
func suggestClasses(name string, known []string) []string {
	qualified := false
	if pkg, _ := common.SplitQualified(name); pkg != "" {
		qualified = true
	}

	var (
		keys []string
		full = make(map[string][]string)
	)

	add := func(key, k string) {
		if _, ok := full[key]; !ok {
			keys = append(keys, key)
		}

		if !slices.Contains(full[key], k) {
			full[key] = append(full[key], k)
		}
	}

	for _, k := range known {
		pkg, short := common.SplitQualified(k)

		if !qualified {
			add(short, k)

			continue
		}

		add(k, k)

		if pkg != "" {
			add(common.PkgAlias(pkg)+"."+short, k)
		}
	}

	var out []string

	for _, s := range naming.Suggest(name, keys, 3) {
		for _, k := range full[s] {
			if !slices.Contains(out, k) {
				out = append(out, k)
			}
		}
	}

	return out
}

// AmbiguousTypeError reports two distinct type overrides at the same
// hierarchy level.
type AmbiguousTypeError struct {
	Class  string
	Member string
	Types  []string
}

func (e *AmbiguousTypeError) Error() string {
	where := e.Class
	if e.Member != "" {
		where += "." + e.Member
	}

	return fmt.Sprintf("ambiguous type override on %s: %s", where, strings.Join(e.Types, " vs "))
}

func (e *AmbiguousTypeError) Is(target error) bool { return target == ErrAmbiguousType }

// CompositionCycleError reports a class that transitively composes itself.
// Path lists the composition chain, ending with the repeated class.
type CompositionCycleError struct {
	Path []string
}

func (e *CompositionCycleError) Error() string {
	return "composition cycle: " + strings.Join(e.Path, " -> ")
}

func (e *CompositionCycleError) Is(target error) bool { return target == ErrCompositionCycle }

// DeprecatedUsageError reports an item in the deprecated single-aggregate shape.
type DeprecatedUsageError struct {
	Kind     Kind
	Location string
}

func (e *DeprecatedUsageError) Error() string {
	return fmt.Sprintf(
		"Passing a single array to the constructor of %q is deprecated; declare one %s item per entry instead (%s)",
		naming.UpperCamel(string(e.Kind)), e.Kind, e.Location,
	)
}

func (e *DeprecatedUsageError) Is(target error) bool { return target == ErrDeprecatedUsage }
