package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhoneNumber_Success(t *testing.T) {
	for _, phone := range []string{
		"+15550000001",
		"555-000-0001",
		"(555) 000 0001",
		"+44 20 7946 0958",
	} {
		assert.NoError(t, ValidatePhoneNumber(phone), phone)
	}
}

func TestValidatePhoneNumber_Failures(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		message string
	}{
		{"empty", "", "Phone number is required"},
		{"too long", "+1 555 000 0001 ext 12", "at most 20 characters"},
		{"letters", "+1555CALLNOW", "invalid character 'C'"},
		{"plus in the middle", "1555+0000001", "invalid character '+'"},
		{"too few digits", "+1 555", "at least 7 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhoneNumber(tt.phone)
			require.Error(t, err)

			contactErr, ok := err.(*ContactError)
			require.True(t, ok)
			assert.Equal(t, "INVALID_PHONE_NUMBER", contactErr.Code)
			assert.Contains(t, contactErr.Message, tt.message)
		})
	}
}
