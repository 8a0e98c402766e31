// Package services: services/password.go
package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. The stored form is hex(digest) + "." + hex(salt); the salt
// fed to scrypt is the hex string itself, which keeps existing records verifiable.
const (
	scryptN    = 16384
	scryptR    = 8
	scryptP    = 1
	scryptLen  = 64
	saltLength = 16
)

var hashedPattern = regexp.MustCompile(`^[0-9a-f]{128}\.[0-9a-f]{32}$`)

// IsHashed reports whether stored is a salted digest rather than a legacy plain-text password.
func IsHashed(stored string) bool {
	return hashedPattern.MatchString(stored)
}

// HashPassword derives a salted digest of password.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	digest, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, scryptLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return hex.EncodeToString(digest) + "." + saltHex, nil
}

// VerifyPassword checks supplied against stored in constant time. Legacy plain-text
// records are compared directly; legacy is true when that path was taken.
func VerifyPassword(supplied, stored string) (ok, legacy bool, err error) {
	if !IsHashed(stored) {
		return subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) == 1, true, nil
	}
	digestHex, saltHex, _ := strings.Cut(stored, ".")
	want, err := hex.DecodeString(digestHex)
	if err != nil {
		return false, false, fmt.Errorf("decode digest: %w", err)
	}
	got, err := scrypt.Key([]byte(supplied), []byte(saltHex), scryptN, scryptR, scryptP, scryptLen)
	if err != nil {
		return false, false, fmt.Errorf("derive key: %w", err)
	}
	return subtle.ConstantTimeCompare(want, got) == 1, false, nil
}
