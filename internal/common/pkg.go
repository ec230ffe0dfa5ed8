package common

import (
	"path"
	"strings"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// SplitQualified splits "path/to/pkg.Type" into its package path and type name.
// A name without a dot is returned as a bare type name.
func SplitQualified(name string) (pkgPath, typeName string) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return "", name
	}

	// A dot inside the last path element belongs to the type separator only.
	if slash := strings.LastIndex(name, "/"); slash > idx {
		return "", name
	}

	return name[:idx], name[idx+1:]
}
