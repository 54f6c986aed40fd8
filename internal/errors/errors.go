// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrInputValidation   = errors.New("input validation failed")
	ErrDataNotFound      = errors.New("data not found")
	ErrUnsupportedFormat = errors.New("unsupported series format")
	ErrUnknownMode       = errors.New("unknown overlay mode")
	ErrTooManyCandles    = errors.New("series exceeds candle limit")
)

// ValidationError represents a validation error on a single input field.
type ValidationError struct {
	Row     int // -1 when the error is not tied to a row
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("validation error: row %d: %s (%v): %s", e.Row, e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// NewValidationError creates a new ValidationError not tied to a row.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Row:     -1,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewRowError creates a new ValidationError for a row of a series.
func NewRowError(row int, field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Row:     row,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ConfigError represents an invalid configuration or engine parameter.
type ConfigError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s (%v): %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError. The reason is wrapped around ErrConfigInvalid.
func NewConfigError(field string, value interface{}, reason string) *ConfigError {
	return &ConfigError{
		Field: field,
		Value: value,
		Err:   fmt.Errorf("%w: %s", ErrConfigInvalid, reason),
	}
}

// DataError represents a data-related error.
type DataError struct {
	Source  string
	Message string
	Err     error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s]: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s]: %s", e.Source, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(source, message string, err error) *DataError {
	return &DataError{
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
