package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewRowError(3, "high", "abc", "not a number")
	assert.Equal(t, "validation error: row 3: high (abc): not a number", err.Error())
	assert.True(t, Is(err, ErrInputValidation))

	err = NewValidationError("source", "", "must not be empty")
	assert.Equal(t, "validation error: source (): must not be empty", err.Error())

	wrapped := Wrap(err, "running overlay")
	var ve *ValidationError
	assert.True(t, As(wrapped, &ve))
	assert.Equal(t, "source", ve.Field)
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("window", 0, "must be a positive integer")
	assert.True(t, Is(err, ErrConfigInvalid))
	assert.Contains(t, err.Error(), "window (0)")
}

func TestDataError(t *testing.T) {
	err := NewDataError("btc.csv", "opening series", ErrDataNotFound)
	assert.True(t, Is(err, ErrDataNotFound))
	assert.Equal(t, "data error [btc.csv]: opening series: data not found", err.Error())

	assert.Equal(t, "data error [x]: empty", NewDataError("x", "empty", nil).Error())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ctx"))
	assert.Nil(t, Wrapf(nil, "ctx %d", 1))

	err := Wrapf(ErrUnknownMode, "mode %q", "both")
	assert.Equal(t, fmt.Sprintf("mode %q: unknown overlay mode", "both"), err.Error())
	assert.True(t, Is(err, ErrUnknownMode))
}
