package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateRandomString generates a random hex string of specified length
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, (length+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}

// GenerateTempPassword produces a random password for new staff accounts
// and admin-triggered resets.
func GenerateTempPassword() (string, error) {
	return GenerateRandomString(12)
}

// GenerateAdmissionNumber builds a sequential admission number,
// e.g. ADM-2025-00042. seq is the 1-based number of students admitted in
// that year, including the one being created.
func GenerateAdmissionNumber(year int, seq int64) string {
	return fmt.Sprintf("ADM-%d-%05d", year, seq)
}

// GenerateReceiptNumber builds a receipt number for a fee collection,
// e.g. RCP-20250901-3fa2.
func GenerateReceiptNumber(now time.Time) (string, error) {
	suffix, err := GenerateRandomString(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RCP-%s-%s", now.Format("20060102"), suffix), nil
}

// IsValidRole checks if a staff role is valid
func IsValidRole(role string) bool {
	validRoles := []string{"owner", "admin", "accountant", "counselor"}
	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

// IsValidFrequency checks a fee frequency value
func IsValidFrequency(frequency string) bool {
	switch frequency {
	case "one_time", "monthly", "yearly":
		return true
	}
	return false
}

// IsValidFileExtension checks if file extension is allowed
func IsValidFileExtension(filename string, allowedExtensions []string) bool {
	if filename == "" {
		return false
	}

	parts := strings.Split(filename, ".")
	if len(parts) < 2 {
		return false
	}

	ext := strings.ToLower(parts[len(parts)-1])

	for _, allowedExt := range allowedExtensions {
		if ext == strings.ToLower(allowedExt) {
			return true
		}
	}
	return false
}

// SanitizeString removes dangerous characters from string
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)
	return input
}
