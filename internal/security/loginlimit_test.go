package security

import (
	"testing"
	"time"
)

func TestLoginLimiterAllow(t *testing.T) {
	limiter := NewLoginLimiter(3, 1*time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("alice") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	if limiter.Allow("alice") {
		t.Error("fourth attempt should be blocked")
	}

	// Other accounts are unaffected
	if !limiter.Allow("bob") {
		t.Error("different username should be allowed")
	}
}

func TestLoginLimiterReset(t *testing.T) {
	limiter := NewLoginLimiter(1, 1*time.Minute)

	if !limiter.Allow("alice") {
		t.Fatal("first attempt should be allowed")
	}
	if limiter.Allow("alice") {
		t.Fatal("second attempt should be blocked")
	}

	limiter.Reset("alice")

	if !limiter.Allow("alice") {
		t.Error("attempt after reset should be allowed")
	}
}

func TestGenerateSessionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := GenerateSessionID()
		if id == "" {
			t.Fatal("GenerateSessionID() returned empty string")
		}
		if seen[id] {
			t.Fatalf("duplicate session id generated: %s", id)
		}
		seen[id] = true
	}
}
