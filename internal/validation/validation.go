package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateUsername checks if a username is valid
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if len(username) < 3 {
		return ValidationError{Field: "username", Message: "username must be at least 3 characters"}
	}
	if len(username) > 32 {
		return ValidationError{Field: "username", Message: "username must be at most 32 characters"}
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "username may only contain letters, digits, '_', '.' and '-'"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateCorrectLetter checks that a question's answer letter is one of A-D
func ValidateCorrectLetter(letter string) error {
	switch strings.ToUpper(strings.TrimSpace(letter)) {
	case "A", "B", "C", "D":
		return nil
	}
	return ValidationError{Field: "correct_answer", Message: "correct answer must be one of A, B, C or D"}
}

// ValidateQuestionText checks that question text is present
func ValidateQuestionText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ValidationError{Field: "question_text", Message: "question text is required"}
	}
	return nil
}

// ValidateOptions checks that all four option texts are present
func ValidateOptions(a, b, c, d string) error {
	options := []struct {
		field string
		text  string
	}{
		{"option_a", a},
		{"option_b", b},
		{"option_c", c},
		{"option_d", d},
	}
	for _, opt := range options {
		if strings.TrimSpace(opt.text) == "" {
			return ValidationError{Field: opt.field, Message: "option text is required"}
		}
	}
	return nil
}
