package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"goentropy/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid       = "CONFIG_INVALID"
	CodeValidationError     = "VALIDATION_ERROR"
	CodeInsufficientEntropy = "INSUFFICIENT_ENTROPY"
	CodePoolOverflow        = "POOL_OVERFLOW"
	CodePayloadTooLarge     = "PAYLOAD_TOO_LARGE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func PayloadTooLarge(cause error) *AppError {
	return &AppError{Code: CodePayloadTooLarge, Message: "request too large", Cause: cause}
}

// FromDomain classifies a domain error into an AppError code
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var maxBytes *http.MaxBytesError
	if stderrors.As(err, &maxBytes) {
		return PayloadTooLarge(fmt.Errorf("%w: body exceeds %d bytes", core.ErrInvalidLength, maxBytes.Limit))
	}

	code := CodeInternalError
	switch {
	case stderrors.Is(err, core.ErrPoolOverflow):
		code = CodePoolOverflow
	case stderrors.Is(err, core.ErrInsufficientEntropy):
		code = CodeInsufficientEntropy
	case core.IsValidationError(err):
		code = CodeValidationError
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}

// HTTPStatus maps an error to the status code the API responds with
func HTTPStatus(err error) int {
	switch FromDomain(err).Code {
	case CodeValidationError:
		return http.StatusBadRequest
	case CodeInsufficientEntropy:
		return http.StatusTooEarly
	case CodePoolOverflow, CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
