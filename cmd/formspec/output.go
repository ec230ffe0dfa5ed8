package main

import (
	"io"

	"github.com/fatih/color"

	"formspec/diagnostic"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	hintColor    = color.New(color.Faint)
)

func printError(w io.Writer, err error) {
	errorColor.Fprintf(w, "error: %v\n", err)
}

// printDiagnostics writes build diagnostics, most severe first.
func printDiagnostics(w io.Writer, d *diagnostic.Diagnostics) {
	if d == nil {
		return
	}

	for _, diag := range d.Errors {
		errorColor.Fprintf(w, "error: %s\n", diag)
	}

	for _, diag := range d.Warnings {
		warningColor.Fprintf(w, "warning: %s\n", diag)
	}

	for _, diag := range d.Infos {
		infoColor.Fprintf(w, "info: %s\n", diag)
	}

	if n := d.Len(); n > 0 {
		hintColor.Fprintf(w, "%d diagnostic(s)\n", n)
	}
}
