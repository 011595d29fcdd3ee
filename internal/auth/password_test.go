package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Password1")
	require.NoError(t, err)
	assert.NotEqual(t, "Password1", hash)

	assert.True(t, VerifyPassword(hash, "Password1"))
	assert.False(t, VerifyPassword(hash, "Password2"))
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "Password1", nil},
		{"too short", "Pass1", ErrPasswordTooShort},
		{"no uppercase", "password1", ErrPasswordNoUpper},
		{"no lowercase", "PASSWORD1", ErrPasswordNoLower},
		{"no number", "Passwords", ErrPasswordNoNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
