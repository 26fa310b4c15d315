package apperrors

import "fmt"

// Kind classifies a domain failure so the transport layer can map it to a
// status code without string matching.
type Kind int

const (
	KindNotFound Kind = iota
	KindPermissionDenied
	KindInvalidTransition
	KindValidation
	KindConflict
	KindPaymentNotConfirmed
	KindDocumentValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindValidation:
		return "validation_error"
	case KindConflict:
		return "conflict"
	case KindPaymentNotConfirmed:
		return "payment_not_confirmed"
	case KindDocumentValidation:
		return "document_validation"
	default:
		return "unknown"
	}
}

// Error is the single error type the domain layer returns. Callers are
// guaranteed a Kind plus a human-readable message; state is never mutated
// before one of these is raised.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf returns the Kind of err, or (0, false) when err is not a domain
// error.
func KindOf(err error) (Kind, bool) {
	appErr, ok := err.(*Error)
	if !ok {
		return 0, false
	}
	return appErr.Kind, true
}

// Is reports whether err is a domain error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func NotFound(resource string, id any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with id %v not found", resource, id),
	}
}

func PermissionDenied(action string) *Error {
	return &Error{
		Kind:    KindPermissionDenied,
		Message: fmt.Sprintf("not allowed to %s", action),
	}
}

func InvalidTransition(entity, from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("%s cannot move from %s to %s", entity, from, to),
	}
}

func Validation(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("invalid %s: %s", field, message),
	}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func PaymentNotConfirmed(requestCode string) *Error {
	return &Error{
		Kind:    KindPaymentNotConfirmed,
		Message: fmt.Sprintf("request %s has no confirmed payment", requestCode),
	}
}

func DocumentValidation(message string) *Error {
	return &Error{Kind: KindDocumentValidation, Message: message}
}
