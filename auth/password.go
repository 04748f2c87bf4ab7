package auth

import (
	"regexp"
	"unicode"

	"github.com/junaidrashid-git/yoruwear-api/apperrors"
	"golang.org/x/crypto/bcrypt"
)

var bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces length and character class rules.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.Validation("Password must be at least 8 characters long")
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower {
		return apperrors.Validation("Password must contain at least one lowercase letter")
	}
	if !upper {
		return apperrors.Validation("Password must contain at least one uppercase letter")
	}
	if !digit {
		return apperrors.Validation("Password must contain at least one number")
	}
	return nil
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
