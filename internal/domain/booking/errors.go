package booking

import "fmt"

// Kind classifies booking failures so transports can map them without
// string matching.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindNotAProvider       Kind = "not_a_provider"
	KindSelfBooking        Kind = "self_booking"
	KindPastDate           Kind = "past_date"
	KindSlotUnavailable    Kind = "slot_unavailable"
	KindNotFound           Kind = "not_found"
	KindForbidden          Kind = "forbidden"
	KindCancellationWindow Kind = "cancellation_window"
)

// Error is a typed booking failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from an error, or empty when the
// error is not a booking failure.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}
