package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid simple", "alice", false},
		{"valid with digits", "alice42", false},
		{"valid with separators", "alice._-bob", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 33), true},
		{"contains space", "alice bob", true},
		{"contains symbol", "alice!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "longenough", false},
		{"exactly eight", "12345678", false},
		{"empty", "", true},
		{"too short", "short", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCorrectLetter(t *testing.T) {
	tests := []struct {
		letter  string
		wantErr bool
	}{
		{"A", false},
		{"B", false},
		{"C", false},
		{"D", false},
		{"b", false},
		{" c ", false},
		{"E", true},
		{"", true},
		{"AB", true},
	}

	for _, tt := range tests {
		err := ValidateCorrectLetter(tt.letter)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCorrectLetter(%q) error = %v, wantErr %v", tt.letter, err, tt.wantErr)
		}
	}
}

func TestValidateOptions(t *testing.T) {
	if err := ValidateOptions("a", "b", "c", "d"); err != nil {
		t.Errorf("ValidateOptions() unexpected error: %v", err)
	}

	err := ValidateOptions("a", "", "c", "d")
	if err == nil {
		t.Fatal("ValidateOptions() expected error for empty option")
	}

	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if vErr.Field != "option_b" {
		t.Errorf("error field = %q, want option_b", vErr.Field)
	}
}
