package vaulterrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfExtractsCode(t *testing.T) {
	err := New(LowBalance, "account.Charge")
	code, ok := CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, LowBalance, code)
}

func TestCodeOfFalseForForeignError(t *testing.T) {
	_, ok := CodeOf(errors.New("boom"))
	assert.False(t, ok)
}

func TestCodeOfUnwrapsWrappedError(t *testing.T) {
	inner := New(NoSuchAccount, "account.Get")
	wrapped := errors.New("context: " + inner.Error())
	_, ok := CodeOf(wrapped)
	assert.False(t, ok) // plain string concatenation, not %w, so no *Error to unwrap

	realWrap := fmt.Errorf("context: %w", Wrap(NoSuchAccount, "account.Get", errors.New("underlying")))
	code, ok := CodeOf(realWrap)
	assert.True(t, ok)
	assert.Equal(t, NoSuchAccount, code)
}

func TestIsMatchesOnCodeNotMessage(t *testing.T) {
	a := New(LowBalance, "op-a")
	b := New(LowBalance, "op-b")
	c := New(NoSuchAccount, "op-a")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}
