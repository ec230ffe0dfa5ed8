package builder

import (
	"fmt"
	"slices"

	"formspec/annotation"
)

// as returns the payload of it as a T.
func as[T any](it annotation.Item, class, member string) (T, error) {
	v, ok := it.Payload.(T)
	if !ok {
		var zero T

		return zero, &annotation.MetadataResolutionError{
			Class:  class,
			Member: member,
			Reason: fmt.Sprintf("%q item carries %T, want %T", it.Kind, it.Payload, zero),
		}
	}

	return v, nil
}

// valuesOf accepts ordered values or a plain map, whose keys are then sorted.
func valuesOf(it annotation.Item, class, member string) (*annotation.Values, error) {
	switch v := it.Payload.(type) {
	case *annotation.Values:
		return v, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		out := annotation.NewValues()
		for _, k := range keys {
			out.Set(k, v[k])
		}

		return out, nil
	}

	return as[*annotation.Values](it, class, member)
}
