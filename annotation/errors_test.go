package annotation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_Is(t *testing.T) {
	wrapped := fmt.Errorf("build: %w", &CompositionCycleError{Path: []string{"A", "B", "A"}})
	assert.ErrorIs(t, wrapped, ErrCompositionCycle)
	assert.NotErrorIs(t, wrapped, ErrAmbiguousType)

	var cycle *CompositionCycleError
	require.True(t, errors.As(wrapped, &cycle))
	assert.Equal(t, "composition cycle: A -> B -> A", cycle.Error())

	assert.ErrorIs(t, &AmbiguousTypeError{Class: "User", Types: []string{"text", "email"}}, ErrAmbiguousType)
	assert.ErrorIs(t, &DeprecatedUsageError{Kind: KindFilter}, ErrDeprecatedUsage)
	assert.ErrorIs(t, &MetadataResolutionError{Reason: "x"}, ErrMetadataResolution)
}

func TestDeprecatedUsageError_Message(t *testing.T) {
	err := &DeprecatedUsageError{Kind: KindComposedObject, Location: "User.Address"}
	assert.Contains(t, err.Error(), `Passing a single array to the constructor of "ComposedObject" is deprecated`)
	assert.Contains(t, err.Error(), "User.Address")
}

func TestMetadataResolutionError_Message(t *testing.T) {
	err := UnknownClass("accounts.Adress", []string{"accounts.Address", "billing.Invoice"})
	assert.Equal(t, []string{"accounts.Address"}, err.Suggestions)
	assert.Equal(t,
		`metadata resolution failed for accounts.Adress: unknown class (did you mean "accounts.Address"?)`,
		err.Error(),
	)

	inner := errors.New("boom")
	err = &MetadataResolutionError{Class: "a.B", Member: "C", Reason: "malformed property metadata", Err: inner}
	assert.Equal(t, "metadata resolution failed for a.B.C: malformed property metadata: boom", err.Error())
	assert.ErrorIs(t, err, inner)
}
