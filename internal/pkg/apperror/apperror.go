package apperror

import "fmt"

// Kind classifies an AppError independently of its HTTP status.
type Kind string

const (
	KindInputFormat         Kind = "input_format"
	KindNotFound            Kind = "not_found"
	KindScheduleConflict    Kind = "schedule_conflict"
	KindNoSchedule          Kind = "no_schedule"
	KindSlotMismatch        Kind = "slot_mismatch"
	KindStateTransition     Kind = "state_transition"
	KindUniquenessExhausted Kind = "uniqueness_exhausted"
	KindPermission          Kind = "permission"
	KindConflict            Kind = "conflict"
)

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Kind    Kind   // Taxonomy bucket, exposed to clients
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code, kind and message.
func New(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// WithDetail derives an error from a sentinel, appending detail to the message.
// errors.Is(result, sentinel) stays true.
func WithDetail(sentinel *AppError, format string, args ...any) *AppError {
	return &AppError{
		Code:    sentinel.Code,
		Kind:    sentinel.Kind,
		Message: sentinel.Message + ": " + fmt.Sprintf(format, args...),
		Err:     sentinel,
	}
}
