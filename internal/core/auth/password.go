package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/markdave123-py/joba/internal/core/errs"
)

const specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// HashPassword hashes a password using bcrypt.
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword compares a plain password with a stored hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength enforces the signup password policy: minimum 8
// characters with at least one uppercase letter, one lowercase letter, one
// digit and one special character.
func ValidatePasswordStrength(password string) error {
	var upper, lower, digit, special bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		case strings.ContainsRune(specialChars, c):
			special = true
		}
	}
	if len(password) < 8 || !upper || !lower || !digit || !special {
		return errs.Validation("password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}
	return nil
}
