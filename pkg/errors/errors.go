// ================== pkg/errors/errors.go =================
package errors

import (
	"errors"
	"net/http"
)

// Kind tags an Error with the class of failure it represents.
type Kind int

const (
	KindUnclassified Kind = iota
	KindValidation
	KindBadRequest
	KindNotFound
	KindMethodNotAllowed
	KindDatabase
	KindRateLimited
)

// Stable machine-readable error codes.
const (
	CodeServerError      = "server_error"
	CodeValidation       = "validation_error"
	CodeBadRequest       = "bad_request"
	CodeTodoNotFound     = "todo_not_found"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeDatabase         = "database_error"
	CodeRateLimited      = "rate_limited"
)

var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrBadRequest = &Error{Kind: KindBadRequest}
	ErrValidation = &Error{Kind: KindValidation}
	ErrDatabase   = &Error{Kind: KindDatabase}
	ErrInternal   = &Error{Kind: KindUnclassified}
)

// Error is the single application error type. Every failure that reaches
// the HTTP boundary is either an *Error or gets classified into one.
type Error struct {
	Kind   Kind
	Code   string
	Detail string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so callers can match with errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func TodoNotFound() *Error {
	return &Error{
		Kind:   KindNotFound,
		Code:   CodeTodoNotFound,
		Detail: "Todo not found",
		Status: http.StatusNotFound,
	}
}

// Database wraps a store failure. The original message becomes the detail.
func Database(err error) *Error {
	detail := "Database operation failed"
	if err != nil {
		detail = err.Error()
	}
	return &Error{
		Kind:   KindDatabase,
		Code:   CodeDatabase,
		Detail: detail,
		Status: http.StatusInternalServerError,
		Err:    err,
	}
}

func Validation(detail string) *Error {
	return &Error{
		Kind:   KindValidation,
		Code:   CodeValidation,
		Detail: detail,
		Status: http.StatusUnprocessableEntity,
	}
}

func BadRequest(detail string) *Error {
	return &Error{
		Kind:   KindBadRequest,
		Code:   CodeBadRequest,
		Detail: detail,
		Status: http.StatusBadRequest,
	}
}

func RouteNotFound() *Error {
	return &Error{
		Kind:   KindNotFound,
		Code:   CodeNotFound,
		Detail: "Not Found",
		Status: http.StatusNotFound,
	}
}

func MethodNotAllowed() *Error {
	return &Error{
		Kind:   KindMethodNotAllowed,
		Code:   CodeMethodNotAllowed,
		Detail: "Method Not Allowed",
		Status: http.StatusMethodNotAllowed,
	}
}

func RateLimited() *Error {
	return &Error{
		Kind:   KindRateLimited,
		Code:   CodeRateLimited,
		Detail: "Rate limit exceeded. Try again later.",
		Status: http.StatusTooManyRequests,
	}
}

// Internal wraps anything that is not one of the known kinds.
func Internal(err error) *Error {
	detail := "Internal Server Error"
	if err != nil {
		detail = err.Error()
	}
	return &Error{
		Kind:   KindUnclassified,
		Code:   CodeServerError,
		Detail: detail,
		Status: http.StatusInternalServerError,
		Err:    err,
	}
}

// Classify returns err as an *Error, falling back to an unclassified
// server error. The switch covers every Kind so a new kind without a
// status mapping surfaces as a 500.
func Classify(err error) *Error {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return Internal(err)
	}

	switch appErr.Kind {
	case KindValidation, KindBadRequest, KindNotFound, KindMethodNotAllowed, KindDatabase, KindRateLimited:
		if appErr.Status == 0 || appErr.Code == "" {
			return Internal(err)
		}
		return appErr
	case KindUnclassified:
		return Internal(appErr.Err)
	default:
		return Internal(err)
	}
}
