package utils

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

// ValidateStruct runs validator tags on a request DTO.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}

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

// IsValidRole checks if a role is valid
func IsValidRole(role string) bool {
	validRoles := []string{"admin", "teacher", "student", "parent"}
	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

// NowISO returns the current UTC time in the ISO-8601 form documents carry.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// GradeForPercentage maps an exam percentage to its letter grade.
func GradeForPercentage(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 50:
		return "D"
	}
	return "F"
}

// InlineFileSize returns the decoded byte size of an inline base64 payload.
// Data-URL prefixes ("data:<type>;base64,") are tolerated.
func InlineFileSize(payload string) int {
	if idx := strings.Index(payload, ";base64,"); idx >= 0 {
		payload = payload[idx+len(";base64,"):]
	}
	return base64.RawStdEncoding.DecodedLen(len(strings.TrimRight(payload, "=")))
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
	return strings.TrimSpace(input)
}
