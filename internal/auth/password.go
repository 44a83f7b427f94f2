// Package auth implements account creation, credential verification, the
// failed-login lockout tracker, and session token handling.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a one-way salted hash of a raw password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
