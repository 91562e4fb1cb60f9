package credentials

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "correct horse battery staple"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "" {
		t.Error("HashPassword() returned empty string")
	}

	if hash == password {
		t.Error("HashPassword() returned unhashed password")
	}

	if !strings.HasPrefix(hash, "pbkdf2_sha256$") {
		t.Errorf("HashPassword() = %q, want pbkdf2_sha256$ prefix", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 3 {
		t.Fatalf("expected 3 $-separated fields, got %d", len(parts))
	}
	if len(parts[1]) != 32 {
		t.Errorf("salt hex length = %d, want 32", len(parts[1]))
	}
	if len(parts[2]) != 64 {
		t.Errorf("key hex length = %d, want 64", len(parts[2]))
	}

	// Same password hashes differently thanks to the random salt
	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == hash2 {
		t.Error("HashPassword() should produce different hashes due to salt")
	}

	// Both still verify
	if !VerifyPassword(password, hash) {
		t.Error("first hash failed to verify")
	}
	if !VerifyPassword(password, hash2) {
		t.Error("second hash failed to verify")
	}
}

func TestVerifyPassword(t *testing.T) {
	password := "mySecurePassword"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		stored   string
		want     bool
	}{
		{
			name:     "correct password",
			password: password,
			stored:   hash,
			want:     true,
		},
		{
			name:     "incorrect password",
			password: "wrongPassword",
			stored:   hash,
			want:     false,
		},
		{
			name:     "empty password",
			password: "",
			stored:   hash,
			want:     false,
		},
		{
			name:     "legacy plain-text match",
			password: "hunter2",
			stored:   "hunter2",
			want:     true,
		},
		{
			name:     "legacy plain-text mismatch",
			password: "wrong",
			stored:   "hunter2",
			want:     false,
		},
		{
			name:     "empty stored value",
			password: "anything",
			stored:   "",
			want:     false,
		},
		{
			name:     "tagged but missing fields",
			password: password,
			stored:   "pbkdf2_sha256$deadbeef",
			want:     false,
		},
		{
			name:     "tagged with malformed salt hex",
			password: password,
			stored:   "pbkdf2_sha256$nothex$" + strings.Repeat("ab", 32),
			want:     false,
		},
		{
			name:     "tagged with malformed key hex",
			password: password,
			stored:   "pbkdf2_sha256$" + strings.Repeat("ab", 16) + "$nothex",
			want:     false,
		},
		{
			name:     "tagged with empty key",
			password: password,
			stored:   "pbkdf2_sha256$" + strings.Repeat("ab", 16) + "$",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := VerifyPassword(tt.password, tt.stored)
			if result != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestVerifyPasswordRoundTrip(t *testing.T) {
	passwords := []string{
		"short",
		"with spaces and punctuation!?",
		"unicode: žluťoučký kůň",
		"1234567890",
	}

	for _, p := range passwords {
		hash, err := HashPassword(p)
		if err != nil {
			t.Fatalf("HashPassword(%q) error = %v", p, err)
		}
		if !VerifyPassword(p, hash) {
			t.Errorf("VerifyPassword(%q, hash) = false, want true", p)
		}
		if VerifyPassword(p+"x", hash) {
			t.Errorf("VerifyPassword(%q, hash) = true, want false", p+"x")
		}
	}
}
