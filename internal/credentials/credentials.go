// Package credentials produces and checks stored password representations.
// New credentials are always written in the tagged PBKDF2 form; untagged
// values left over from older installs are verified by direct comparison
// and never re-derived in place.
package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// ErrCryptoUnavailable indicates the platform random source failed.
// Registration cannot proceed without it.
var ErrCryptoUnavailable = errors.New("cryptographic random source unavailable")

const (
	algorithmTag = "pbkdf2_sha256"
	saltBytes    = 16
	iterations   = 200_000
	keyBytes     = 32
)

// HashPassword derives a salted hash from a plaintext password and encodes it
// as "pbkdf2_sha256$<salt-hex>$<key-hex>". Two calls on the same password
// yield different strings because the salt is drawn fresh each time.
// Callers are responsible for rejecting empty passwords before calling.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyBytes, sha256.New)

	return algorithmTag + "$" + hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
}

// VerifyPassword checks a candidate password against a stored representation.
// Tagged values are re-derived with the stored salt and compared in constant
// time. Untagged values are treated as legacy plain-text credentials and
// compared directly. Malformed tagged values verify as false, never as an
// error.
func VerifyPassword(password, stored string) bool {
	if !strings.HasPrefix(stored, algorithmTag+"$") {
		// Legacy untagged credential. Constant-time here too, it costs nothing.
		return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
	}

	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return false
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(parts[2])
	if err != nil || len(expected) == 0 {
		return false
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)

	return subtle.ConstantTimeCompare(key, expected) == 1
}
