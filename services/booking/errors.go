package booking

import "fmt"

// Error is a booking rule violation. Two Errors match under errors.Is when
// their codes are equal, so callers can compare against the sentinels
// below while the message carries the booking id.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

const (
	CodeNotFound         = "notFound"
	CodeAlreadyAssigned  = "alreadyAssigned"
	CodeAlreadyCancelled = "alreadyCancelled"
	CodeUnauthorized     = "unauthorized"
	CodeEmptyReason      = "emptyReason"
	CodeInvalidBooking   = "invalidBooking"
	CodeConflict         = "conflict"
)

var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "booking not found"}
	ErrAlreadyAssigned  = &Error{Code: CodeAlreadyAssigned, Message: "booking is assigned to another admin"}
	ErrAlreadyCancelled = &Error{Code: CodeAlreadyCancelled, Message: "booking is cancelled"}
	ErrUnauthorized     = &Error{Code: CodeUnauthorized, Message: "booking belongs to another admin"}
	ErrEmptyReason      = &Error{Code: CodeEmptyReason, Message: "a cancellation reason is required"}
	ErrInvalidBooking   = &Error{Code: CodeInvalidBooking, Message: "booking is invalid"}
	ErrConflict         = &Error{Code: CodeConflict, Message: "booking kept changing, try again"}
)

func newError(code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
