package utils

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/ewhacare/accessdesk/config"
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with its possible plaintext.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckAdminCredentials validates a login against the configured admin. The
// hash comparison runs even when the username is wrong.
func CheckAdminCredentials(cfg config.AppConfig, username, password string) bool {
	if cfg.AdminPasswordHash == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.AdminUsername)) == 1
	passOK := CheckPassword(cfg.AdminPasswordHash, password)
	return userOK && passOK
}
