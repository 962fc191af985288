// internal/app/system/authutil/authutil.go

// Package authutil holds password hashing and credential validation shared by
// the registration, login, and password-reset flows.
package authutil

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6
	// MaxPasswordLength caps input before bcrypt's 72-byte limit matters.
	MaxPasswordLength = 128
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 128 characters")
	ErrPasswordCommon   = errors.New("password is too common; choose something less guessable")
	ErrInvalidEmail     = errors.New("enter a valid email address")
)

// commonPasswords are rejected regardless of length. Checked case-insensitively.
var commonPasswords = map[string]struct{}{
	"password":  {},
	"password1": {},
	"123456":    {},
	"12345678":  {},
	"123456789": {},
	"qwerty":    {},
	"abc123":    {},
	"letmein":   {},
	"welcome":   {},
	"iloveyou":  {},
	"admin":     {},
	"monkey":    {},
	"dragon":    {},
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePassword enforces the password rules for new passwords.
func ValidatePassword(plain string) error {
	if len(plain) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(plain) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if _, bad := commonPasswords[strings.ToLower(plain)]; bad {
		return ErrPasswordCommon
	}
	return nil
}

// PasswordRules returns a human-readable summary for form hints.
func PasswordRules() string {
	return "Use at least 6 characters. Very common passwords are not allowed."
}

// ValidateEmail performs a light structural check on an email address.
// Real verification happens by sending mail; this catches obvious typos.
func ValidateEmail(email string) error {
	if !isValidEmail(email) {
		return ErrInvalidEmail
	}
	return nil
}

func isValidEmail(email string) bool {
	at := strings.Count(email, "@")
	if at != 1 {
		return false
	}
	parts := strings.SplitN(email, "@", 2)
	local, domain := parts[0], parts[1]
	if local == "" || domain == "" {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}
