package auth

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/ChristianMadoz/libreM/store"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail rejects malformed addresses before any row is created.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return store.ErrInvalidEmail
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
