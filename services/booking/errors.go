package booking

import (
	"errors"
	"fmt"
)

// Error codes surfaced to the HTTP layer.
const (
	CodeSessionNotFound  = "sessionNotFound"
	CodeInvalidInput     = "invalidInput"
	CodeNoHourSelected   = "noHourSelected"
	CodeSlotUnavailable  = "slotUnavailable"
	CodeSubmitInFlight   = "submitInFlight"
	CodeSubmissionFailed = "submissionFailed"
)

// BookingError is a coded error the handlers can map to a status.
type BookingError struct {
	Code    string
	Message string
	Err     error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Unwrap() error {
	return e.Err
}

func NewBookingError(code, message string) *BookingError {
	return &BookingError{Code: code, Message: message}
}

// ErrorCode extracts the booking error code from err, or returns "".
func ErrorCode(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
