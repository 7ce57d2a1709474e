package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies an application error.
type ErrorType string

const (
	// ErrTypeMetadataFormat indicates a filename that does not match the
	// naming convention for its datatype.
	ErrTypeMetadataFormat ErrorType = "METADATA_FORMAT"
	// ErrTypeFileFormat indicates malformed measurement file content.
	ErrTypeFileFormat ErrorType = "FILE_FORMAT"
	// ErrTypeNumeric indicates invalid arithmetic in a correction formula.
	ErrTypeNumeric ErrorType = "NUMERIC"
	// ErrTypeInterpolation indicates a non-monotonic or insufficient
	// interpolation grid.
	ErrTypeInterpolation ErrorType = "INTERPOLATION"
	// ErrTypeStorage indicates an export or database sink failure.
	ErrTypeStorage ErrorType = "STORAGE"
	// ErrTypeConfig indicates invalid configuration.
	ErrTypeConfig ErrorType = "CONFIG"
)

// AppError is an application error carrying its taxonomy type and an
// optional cause.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to walk into the cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error.
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewMetadataFormatError creates a filename-convention error.
func NewMetadataFormatError(message string, cause error) *AppError {
	return NewAppError(ErrTypeMetadataFormat, message, cause)
}

// NewFileFormatError creates a malformed-measurement-file error.
func NewFileFormatError(message string, cause error) *AppError {
	return NewAppError(ErrTypeFileFormat, message, cause)
}

// NewNumericError creates an invalid-arithmetic error.
func NewNumericError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNumeric, message, cause)
}

// NewInterpolationError creates an interpolation-grid error.
func NewInterpolationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeInterpolation, message, cause)
}

// NewStorageError creates a storage-related error.
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err or any error in its chain is an AppError of
// the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}
