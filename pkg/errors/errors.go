package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// Error codes used across the client. Domain-rule failures
// (permission, self-action, not-found) are detected before any
// mutation; transport failures may arrive after an optimistic update.
const (
	CodePermissionDenied     = "PERMISSION_DENIED"
	CodeNotFound             = "NOT_FOUND"
	CodeTransportUnavailable = "TRANSPORT_UNAVAILABLE"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeRemoteRejected       = "REMOTE_REJECTED"
	CodeSelfActionDenied     = "SELF_ACTION_DENIED"
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	File    string `json:"-"`
	Line    int    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Code:    code,
		Message: message,
		File:    file,
		Line:    line,
	}
}

func NewWithDetails(code, message, details string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		File:    file,
		Line:    line,
	}
}

func PermissionDenied(message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{Code: CodePermissionDenied, Message: message, File: file, Line: line}
}

func NotFound(message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{Code: CodeNotFound, Message: message, File: file, Line: line}
}

func TransportUnavailable(message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{Code: CodeTransportUnavailable, Message: message, File: file, Line: line}
}

func ValidationFailed(message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{Code: CodeValidationFailed, Message: message, File: file, Line: line}
}

func RemoteRejected(message, details string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{Code: CodeRemoteRejected, Message: message, Details: details, File: file, Line: line}
}

func SelfActionDenied(message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{Code: CodeSelfActionDenied, Message: message, File: file, Line: line}
}

// Message returns the AppError message when err carries one, or
// err.Error() otherwise. Used where the code prefix would leak into
// user-facing text.
func Message(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Is reports whether err carries the given AppError code anywhere in
// its chain.
func Is(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
