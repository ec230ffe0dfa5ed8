package diagnostic

import (
	"errors"
	"strings"

	"go.uber.org/zap/zapcore"

	"formspec/internal/common"
)

// Codes used by the builder.
const (
	CodeUnknownKind       = "unknown-kind"
	CodeNameCollision     = "name-collision"
	CodeIgnoredItem       = "ignored-item"
	CodeUnknownHydrator   = "unknown-hydrator"
	CodeUnboundGroup      = "unbound-validation-group"
	CodeMissingObject     = "missing-object"
	CodeInheritedOverride = "inherited-override"
)

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{"info", "warning", "error"}

func (s Severity) String() string {
	if s >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}

	return common.UnknownStr
}

// Level is the log level a diagnostic of severity s is reported at.
func (s Severity) Level() zapcore.Level {
	switch s {
	case SeverityError:
		return zapcore.ErrorLevel
	case SeverityWarning:
		return zapcore.WarnLevel
	}

	return zapcore.InfoLevel
}

// Diagnostic is one finding about a class or one of its members.
type Diagnostic struct {
	Severity    Severity
	Code        string
	Message     string
	Class       string
	Member      string
	Suggestions []string // candidate names for a misspelled reference
}

// Subject is "Class.Member", or whichever of the two is set.
func (d Diagnostic) Subject() string {
	if d.Class != "" && d.Member != "" {
		return d.Class + "." + d.Member
	}

	return d.Class + d.Member
}

// String renders d as "subject: [code] message (did you mean a, b?)".
func (d Diagnostic) String() string {
	var b strings.Builder

	if s := d.Subject(); s != "" {
		b.WriteString(s)
		b.WriteString(": ")
	}

	if d.Code != "" {
		b.WriteString("[" + d.Code + "] ")
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		b.WriteString(" (did you mean " + strings.Join(d.Suggestions, ", ") + "?)")
	}

	return b.String()
}

// Diagnostics collects the findings of one build, grouped by severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

func (d *Diagnostics) bucket(s Severity) *[]Diagnostic {
	switch s {
	case SeverityError:
		return &d.Errors
	case SeverityWarning:
		return &d.Warnings
	}

	return &d.Infos
}

// Add files diag under its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	b := d.bucket(diag.Severity)
	*b = append(*b, diag)
}

func (d *Diagnostics) add(s Severity, code, message, class, member string) {
	d.Add(Diagnostic{Severity: s, Code: code, Message: message, Class: class, Member: member})
}

// AddError records an error about class and member, either of which may be empty.
func (d *Diagnostics) AddError(code, message, class, member string) {
	d.add(SeverityError, code, message, class, member)
}

// AddWarning records a warning.
func (d *Diagnostics) AddWarning(code, message, class, member string) {
	d.add(SeverityWarning, code, message, class, member)
}

// AddInfo records an informational note.
func (d *Diagnostics) AddInfo(code, message, class, member string) {
	d.add(SeverityInfo, code, message, class, member)
}

// Merge appends every diagnostic of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	for _, diag := range other.All() {
		d.Add(diag)
	}
}

// HasErrors reports whether an error was recorded.
func (d *Diagnostics) HasErrors() bool {
	return d != nil && len(d.Errors) > 0
}

// IsValid is the negation of HasErrors.
func (d *Diagnostics) IsValid() bool { return !d.HasErrors() }

// Len counts the diagnostics of every severity. A nil receiver is empty.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}

	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// All lists errors, then warnings, then infos.
func (d *Diagnostics) All() []Diagnostic {
	if d.Len() == 0 {
		return nil
	}

	out := make([]Diagnostic, 0, d.Len())
	for _, s := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		out = append(out, *d.bucket(s)...)
	}

	return out
}

// Error joins the error diagnostics into one error, or returns nil.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	errs := make([]error, len(d.Errors))
	for i, e := range d.Errors {
		errs[i] = errors.New(e.String())
	}

	return errors.Join(errs...)
}
