package service

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a failure the caller can act on. Detail is merged into the
// response body next to the message.
type Error struct {
	Kind    Kind
	Message string
	Detail  map[string]interface{}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Validation(message string, detail map[string]interface{}) *Error {
	return &Error{Kind: KindValidation, Message: message, Detail: detail}
}

// FieldErrors builds the {"errors": {...}} detail used for per-field validation.
func FieldErrors(fields map[string]string) *Error {
	return Validation("Validation failed", map[string]interface{}{"errors": fields})
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string, detail map[string]interface{}) *Error {
	return &Error{Kind: KindConflict, Message: message, Detail: detail}
}

// AsError unwraps err into a *Error when it is one.
func AsError(err error) (*Error, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	svcErr, ok := AsError(err)
	return ok && svcErr.Kind == kind
}
