// Command formspec builds form specifications from annotated Go structs or
// YAML metadata documents.
//
// Usage:
//
//	formspec spec accounts.User --format jsonschema
//	formspec tree accounts.Signup
//	formspec classes accounts.User
//	formspec kinds
package main

import (
	"os"
)

var (
	// Version information, set at build time.
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}
