package errors

import (
	"fmt"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helper for common errors
var (
	ErrDatabase = func() *HTTPError { return NewHTTPError(http.StatusInternalServerError, "Database error") }
)

// ConnectionError means the store was unreachable or rejected the
// credentials before any query ran.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError means a statement failed after a connection was acquired.
// The query text stays in the wrapped error for logs; response bodies
// never carry it.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func Connection(err error) *ConnectionError { return &ConnectionError{Err: err} }

func Query(err error) *QueryError { return &QueryError{Err: err} }
