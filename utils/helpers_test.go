package utils

import (
	"encoding/base64"
	"testing"
)

func TestGradeForPercentage(t *testing.T) {
	tests := []struct {
		pct   float64
		grade string
	}{
		{100, "A+"},
		{90, "A+"},
		{89.9, "A"},
		{80, "A"},
		{70, "B"},
		{60, "C"},
		{50, "D"},
		{49.9, "F"},
		{0, "F"},
	}
	for _, tc := range tests {
		if got := GradeForPercentage(tc.pct); got != tc.grade {
			t.Errorf("GradeForPercentage(%v) = %q, expected %q", tc.pct, got, tc.grade)
		}
	}
}

func TestInlineFileSize(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello world"))

	if got := InlineFileSize(payload); got != 11 {
		t.Fatalf("expected 11 bytes, got %d", got)
	}
	if got := InlineFileSize("data:text/plain;base64," + payload); got != 11 {
		t.Fatalf("expected 11 bytes with data-url prefix, got %d", got)
	}
}

func TestIsValidFileExtension(t *testing.T) {
	allowed := []string{"pdf", "doc", "PNG"}

	tests := []struct {
		filename string
		ok       bool
	}{
		{"homework.pdf", true},
		{"homework.PDF", true},
		{"photo.png", true},
		{"script.exe", false},
		{"noextension", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsValidFileExtension(tc.filename, allowed); got != tc.ok {
			t.Errorf("IsValidFileExtension(%q) = %v, expected %v", tc.filename, got, tc.ok)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{"admin", "teacher", "student", "parent"} {
		if !IsValidRole(role) {
			t.Errorf("expected %q to be valid", role)
		}
	}
	for _, role := range []string{"", "principal", "Admin"} {
		if IsValidRole(role) {
			t.Errorf("expected %q to be invalid", role)
		}
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := CheckPassword("s3cret", hash); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello\x00 world  "); got != "hello world" {
		t.Fatalf("unexpected sanitized string %q", got)
	}
}
