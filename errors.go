package coinboard

import "errors"

// ValidationError is a client-side precondition failure. It blocks the
// action before any network call and is meant to be shown inline next
// to the triggering control.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

func validationErr(msg string) error {
	return NewValidationError(msg)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrToggleInFlight reports a favorite toggle issued while a previous
// toggle on the same asset is still pending. The server offers no
// idempotency key, so overlapping toggles must be refused.
var ErrToggleInFlight = errors.New("favorite toggle already in flight")
