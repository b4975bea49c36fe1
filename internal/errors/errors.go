package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation          ErrorType = "validation"
	ErrorTypeExtraction          ErrorType = "extraction_failed"
	ErrorTypeInsufficientContent ErrorType = "insufficient_content"
	ErrorTypeGeneration          ErrorType = "generation_failed"
	ErrorTypeTimeout             ErrorType = "timeout"
	ErrorTypeInternal            ErrorType = "internal"
)

// StageExtract tags errors raised while reading text from the image.
const StageExtract = "extract"

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Stage      string    `json:"stage,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	prefix := string(e.Type)
	if e.Stage != "" {
		prefix = fmt.Sprintf("%s[%s]", e.Type, e.Stage)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewExtractionFailed reports that the image could not be fetched, decoded or read.
func NewExtractionFailed(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExtraction,
		Message:    message,
		Stage:      StageExtract,
		StatusCode: upstreamStatus(cause),
		Cause:      cause,
	}
}

// NewInsufficientContent reports that extraction worked but produced too little text.
func NewInsufficientContent(got, minimum int) *AppError {
	return &AppError{
		Type:       ErrorTypeInsufficientContent,
		Message:    fmt.Sprintf("insufficient text extracted from image (%d characters, need at least %d)", got, minimum),
		Stage:      StageExtract,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewGenerationFailed reports a provider or parse failure for one generation operation.
func NewGenerationFailed(operation string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeGeneration,
		Message:    fmt.Sprintf("%s generation failed", operation),
		Stage:      operation,
		StatusCode: upstreamStatus(cause),
		Cause:      cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func upstreamStatus(cause error) int {
	if stderrors.Is(cause, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := As(err); ok {
		return appErr.Type == errorType
	}
	return false
}

// StageOf returns the pipeline stage an error is tagged with, if any.
func StageOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Stage
	}
	return ""
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
