package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrEmptyInput        = errors.New("empty input")
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrInvalidLength     = errors.New("invalid output length")
	ErrMalformedEncoding = errors.New("malformed encoding")

	// Entropy supply errors
	ErrInsufficientEntropy = errors.New("insufficient entropy")
	ErrPoolOverflow        = errors.New("entropy pool overflow")

	// Determinism errors
	ErrHashMismatch = errors.New("hash mismatch")
)

// Error constructors with context
func NewEmptyInputError(what string) error {
	return fmt.Errorf("%w: %s has zero length", ErrEmptyInput, what)
}

func NewInvalidParameterError(param string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, param, reason)
}

func NewInvalidLengthError(requested, max int) error {
	return fmt.Errorf("%w: requested %d bytes, allowed 1..%d", ErrInvalidLength, requested, max)
}

func NewInsufficientEntropyError(needed, available int) error {
	return fmt.Errorf("%w: needed %d bytes, %d available", ErrInsufficientEntropy, needed, available)
}

func NewPoolOverflowError(incoming, capacity int) error {
	return fmt.Errorf("%w: %d bytes would exceed capacity of %d", ErrPoolOverflow, incoming, capacity)
}

func NewUnsupportedFormatError(format string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, format, err)
}

func NewHashMismatchError(expected, actual Hash) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, expected, actual)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrInvalidLength) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrMalformedEncoding)
}
