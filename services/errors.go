package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures for the HTTP layer.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindForbidden         ErrorKind = "forbidden"
	KindValidation        ErrorKind = "validation_failed"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindNotUnderReview    ErrorKind = "not_under_review"
	KindConflict          ErrorKind = "conflict"
	KindStorage           ErrorKind = "storage"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ServiceError is the typed error returned by every service operation.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// StaleStateMessage is returned when a transition names an outdated state version.
const StaleStateMessage = "State changed, refresh and retry"

// ErrNoActiveWorkflow is returned by binding when no usable workflow exists.
var ErrNoActiveWorkflow = errors.New("no active review workflow configured")

func notFound(message string) error {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

func forbidden(message string) error {
	return &ServiceError{Kind: KindForbidden, Message: message}
}

func invalidTransition(message string) error {
	return &ServiceError{Kind: KindInvalidTransition, Message: message}
}

func conflict(message string, err error) error {
	return &ServiceError{Kind: KindConflict, Message: message, Err: err}
}

func storage(message string, err error) error {
	return &ServiceError{Kind: KindStorage, Message: message, Err: err}
}

// ValidationFailed builds a validation error from field errors.
func ValidationFailed(fields ...FieldError) error {
	return &ServiceError{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// KindOf reports the kind of err, or KindStorage for untyped errors.
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindStorage
}

// IsKind reports whether err is a ServiceError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Kind == kind
}
