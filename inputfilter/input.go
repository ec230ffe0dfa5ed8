package inputfilter

// Entry is a named node of the validation tree.
type Entry interface {
	Name() string
	Type() string
}

// Input validates a single value.
type Input interface {
	Entry

	IsRequired() bool
	SetRequired(v bool)
	AllowEmpty() bool
	SetAllowEmpty(v bool)
	ContinueIfEmpty() bool
	SetContinueIfEmpty(v bool)
	ErrorMessage() string
	SetErrorMessage(msg string)

	Filters() *FilterChain
	Validators() *ValidatorChain
}

// BasicInput is the default Input.
type BasicInput struct {
	name            string
	typ             string
	required        bool
	allowEmpty      bool
	continueIfEmpty bool
	errorMessage    string
	filters         *FilterChain
	validators      *ValidatorChain
}

// NewInput returns an optional input that accepts empty values.
func NewInput(name string) *BasicInput {
	return newInput("input", name)
}

func newInput(typ, name string) *BasicInput {
	return &BasicInput{
		name:            name,
		typ:             typ,
		allowEmpty:      true,
		continueIfEmpty: true,
		filters:         NewFilterChain(),
		validators:      NewValidatorChain(),
	}
}

func (in *BasicInput) Name() string { return in.name }

func (in *BasicInput) Type() string { return in.typ }

func (in *BasicInput) IsRequired() bool { return in.required }

func (in *BasicInput) SetRequired(v bool) { in.required = v }

func (in *BasicInput) AllowEmpty() bool { return in.allowEmpty }

func (in *BasicInput) SetAllowEmpty(v bool) { in.allowEmpty = v }

func (in *BasicInput) ContinueIfEmpty() bool { return in.continueIfEmpty }

func (in *BasicInput) SetContinueIfEmpty(v bool) { in.continueIfEmpty = v }

func (in *BasicInput) ErrorMessage() string { return in.errorMessage }

func (in *BasicInput) SetErrorMessage(msg string) { in.errorMessage = msg }

func (in *BasicInput) Filters() *FilterChain { return in.filters }

func (in *BasicInput) Validators() *ValidatorChain { return in.validators }
