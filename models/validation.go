package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus is returned when a reservation status is outside the recognised set
	ErrInvalidStatus = errors.New("invalid reservation status")

	// ErrInvalidDirection is returned when a message direction is neither inbound nor outbound
	ErrInvalidDirection = errors.New("invalid message direction")

	// ErrInvalidPartySize is returned when a reservation is for fewer than one guest
	ErrInvalidPartySize = errors.New("invalid party size")
)

// ValidationError describes a rejected field value. It unwraps to the sentinel for the rule that failed.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %q is not allowed for %s", e.Err, e.Value, e.Field)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
