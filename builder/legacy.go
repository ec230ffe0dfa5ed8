package builder

import "formspec/annotation"

// rejectLegacy fails on the first item using the deprecated single-aggregate
// shape. It runs before any item of the list is interpreted.
func rejectLegacy(items []annotation.Item, where string) error {
	for _, it := range items {
		if l, ok := annotation.LegacyShape(it); ok {
			return &annotation.DeprecatedUsageError{Kind: l.Kind, Location: where}
		}
	}

	return nil
}
