package auth

import (
	"testing"

	"github.com/junaidrashid-git/yoruwear-api/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)
	assert.True(t, CheckPassword(hash, "Secret123"))
	assert.False(t, CheckPassword(hash, "secret123"))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     string
	}{
		{"Ab1", "Password must be at least 8 characters long"},
		{"ABCDEFG1", "Password must contain at least one lowercase letter"},
		{"abcdefg1", "Password must contain at least one uppercase letter"},
		{"Abcdefgh", "Password must contain at least one number"},
		{"Abcdefg1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			v, ok := apperrors.AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, v.Message)
		})
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("rave@yoruwear.com"))
	assert.False(t, ValidEmail("rave@yoruwear"))
	assert.False(t, ValidEmail("rave yoruwear.com"))
	assert.False(t, ValidEmail(""))
}
