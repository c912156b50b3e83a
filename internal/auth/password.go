package auth

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/pods/internal/common"
)

// Credential formats are fixed patterns, not free-form secrets. The admin
// code encodes both the party id (two digits) and the admin slot (one
// digit); the architect code is a standalone two-digit maintenance key.
var (
	adminCodePattern = regexp.MustCompile(`^Hamstar([1-9]{2})([1-9])$`)
	architectPattern = regexp.MustCompile(`^Dev([1-8]{2})$`)
)

// ParseAdminCode validates an admin credential and extracts the party id and
// admin slot it encodes. Surrounding whitespace is ignored.
func ParseAdminCode(code string) (partyID, adminSlot string, err error) {
	m := adminCodePattern.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return "", "", common.ErrorInvalidPasswordFormat
	}
	return m[1], m[2], nil
}

// IsArchitectCode reports whether the secret is a valid architect
// maintenance key.
func IsArchitectCode(code string) bool {
	return architectPattern.MatchString(strings.TrimSpace(code))
}

// HashSecret hashes a credential for storage.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckSecret reports whether the secret matches the stored hash.
func CheckSecret(hash, secret string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
