package errors

import "fmt"

// Error codes
const (
	CodeAppError   = "APP_ERROR"
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeRecord     = "RECORD_ERROR"
	CodeStorage    = "STORAGE_ERROR"
	CodeCache      = "CACHE_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
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

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// APIError is returned for any response that is not HTTP 200, and for
// transport failures (StatusCode 0).
type APIError struct {
	*AppError
	Reason string
}

func NewAPIError(message string, statusCode int, reason string, context map[string]any) *APIError {
	return &APIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
		Reason: reason,
	}
}

func (e *APIError) WithCause(cause error) *APIError {
	e.Cause = cause
	return e
}

type ValidationError struct {
	*AppError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// RecordError reports a missing or malformed field in a fetched record.
type RecordError struct {
	*AppError
	Path string
}

func NewRecordError(message, path string) *RecordError {
	return &RecordError{
		AppError: &AppError{
			Message: message,
			Code:    CodeRecord,
			Context: map[string]any{
				"path": path,
			},
		},
		Path: path,
	}
}

func (e *RecordError) WithCause(cause error) *RecordError {
	e.Cause = cause
	return e
}

type StorageError struct {
	*AppError
	Operation string
	Path      string
}

func NewStorageError(message, operation, path string, cause error) *StorageError {
	return &StorageError{
		AppError: &AppError{
			Message: message,
			Code:    CodeStorage,
			Context: map[string]any{
				"operation": operation,
				"path":      path,
			},
			Cause: cause,
		},
		Operation: operation,
		Path:      path,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}
