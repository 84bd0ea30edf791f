package rngerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreparationErrorIs(t *testing.T) {
	err := &PreparationError{Path: "/grammar/define[foo]", Message: "dangling ref", Cause: ErrUnresolvedRef}
	assert.True(t, errors.Is(err, ErrUnresolvedRef))
	assert.Contains(t, err.Error(), "/grammar/define[foo]")
	assert.Contains(t, err.Error(), "dangling ref")
}

func TestDatatypeErrorIs(t *testing.T) {
	err := &DatatypeError{Library: "http://www.w3.org/2001/XMLSchema-datatypes", Type: "decimal", Message: "bad facet"}
	assert.True(t, errors.Is(err, ErrUnknownDatatype))
	assert.True(t, errors.Is(err, ErrBadParameter))
	assert.Contains(t, err.Error(), "decimal")
}

func TestDecodeErrorUnwrap(t *testing.T) {
	cause := errors.New("unexpected token")
	err := &DecodeError{Offset: 42, Cause: cause}
	assert.True(t, errors.Is(err, ErrDecode))
	require.ErrorIs(t, err.Unwrap(), cause)
	assert.Contains(t, err.Error(), "offset 42")
}

func TestConfigErrorIs(t *testing.T) {
	err := &ConfigError{Option: "WithFilePath", Message: "must not be empty"}
	assert.True(t, errors.Is(err, ErrConfig))
	assert.Contains(t, err.Error(), "WithFilePath")
}

func TestErrorsAs(t *testing.T) {
	var target error = &PreparationError{Path: "x", Cause: ErrUnresolvedRef}
	var prep *PreparationError
	require.True(t, errors.As(target, &prep))
	assert.Equal(t, "x", prep.Path)
}
