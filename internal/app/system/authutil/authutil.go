// internal/app/system/authutil/authutil.go
package authutil

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72

	// BcryptCost is the work factor for stored admin passwords.
	BcryptCost = 12
)

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d bytes", MaxPasswordLength)
	ErrPasswordCommon   = errors.New("password is too common")
)

var commonPasswords = map[string]struct{}{
	"password":  {},
	"password1": {},
	"12345678":  {},
	"123456789": {},
	"qwerty123": {},
	"iloveyou":  {},
	"letmein1":  {},
	"football":  {},
	"welcome1":  {},
	"admin123":  {},
	"pghub123":  {},
}

// ValidatePassword checks length and rejects a short list of well-known
// passwords (case-insensitive).
func ValidatePassword(pw string) error {
	if len([]rune(pw)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(pw) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if _, ok := commonPasswords[strings.ToLower(pw)]; ok {
		return ErrPasswordCommon
	}
	return nil
}

// PasswordRules is the hint shown beside password fields.
func PasswordRules() string {
	return fmt.Sprintf("Use %d to %d characters. Avoid common passwords.", MinPasswordLength, MaxPasswordLength)
}

// HashPassword returns a bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	return HashPasswordCost(pw, BcryptCost)
}

// HashPasswordCost is HashPassword with an explicit cost. Tests use
// bcrypt.MinCost.
func HashPasswordCost(pw string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches hash. Malformed hashes never match.
func CheckPassword(pw, hash string) bool {
	if pw == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// DummyHash returns a valid hash at BcryptCost that no password matches.
// Comparing against it when a username is unknown makes that failure cost
// the same as a wrong password.
func DummyHash() string {
	dummyOnce.Do(func() {
		b, err := bcrypt.GenerateFromPassword([]byte("pghub: no such admin"), BcryptCost)
		if err != nil {
			panic(fmt.Sprintf("authutil: dummy hash: %v", err))
		}
		dummyHash = string(b)
	})
	return dummyHash
}
