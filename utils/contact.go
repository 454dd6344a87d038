package utils

import (
	"fmt"
)

const (
	// MaxPhoneNumberLength matches the width of customers.phone_number
	MaxPhoneNumberLength = 20
	// MinPhoneDigits rejects obviously truncated numbers
	MinPhoneDigits = 7
)

// ContactError represents an invalid phone number
type ContactError struct {
	Code    string
	Message string
}

func (e *ContactError) Error() string {
	return e.Message
}

// ValidatePhoneNumber accepts an optional leading +, digits, spaces, dashes, dots and parentheses.
// Inbound texts are matched against the stored value exactly, so no normalization happens here.
func ValidatePhoneNumber(phone string) error {
	if phone == "" {
		return &ContactError{Code: "INVALID_PHONE_NUMBER", Message: "Phone number is required"}
	}
	if len(phone) > MaxPhoneNumberLength {
		return &ContactError{
			Code:    "INVALID_PHONE_NUMBER",
			Message: fmt.Sprintf("Phone number must be at most %d characters", MaxPhoneNumberLength),
		}
	}

	digits := 0
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ', r == '-', r == '.', r == '(', r == ')':
		default:
			return &ContactError{
				Code:    "INVALID_PHONE_NUMBER",
				Message: fmt.Sprintf("Phone number contains invalid character %q", r),
			}
		}
	}
	if digits < MinPhoneDigits {
		return &ContactError{
			Code:    "INVALID_PHONE_NUMBER",
			Message: fmt.Sprintf("Phone number must contain at least %d digits", MinPhoneDigits),
		}
	}

	return nil
}
