package security

import (
	"sync"
	"time"
)

// LoginLimiter is a token bucket limiter keyed by username. It slows down
// password guessing against a single account without locking anyone out
// permanently.
type LoginLimiter struct {
	accounts map[string]*bucket
	mu       sync.Mutex
	rate     int           // attempts allowed per window
	window   time.Duration // refill window
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewLoginLimiter creates a limiter allowing rate attempts per window for
// each username
func NewLoginLimiter(rate int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		accounts: make(map[string]*bucket),
		rate:     rate,
		window:   window,
	}
}

// Allow reports whether another login attempt for the username may proceed
func (l *LoginLimiter) Allow(username string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	b, exists := l.accounts[username]
	if !exists {
		b = &bucket{tokens: l.rate, lastRefill: now}
		l.accounts[username] = b
	}

	if now.Sub(b.lastRefill) >= l.window {
		b.tokens = l.rate
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// Reset clears the bucket for a username after a successful login
func (l *LoginLimiter) Reset(username string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.accounts, username)
}

// Cleanup removes buckets that have fully refilled, keeping the map small.
// Call periodically from a background goroutine.
func (l *LoginLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for username, b := range l.accounts {
		if now.Sub(b.lastRefill) > l.window*2 {
			delete(l.accounts, username)
		}
	}
}
