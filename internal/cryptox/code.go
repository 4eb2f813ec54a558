package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
)

// NumericCode returns a random numeric string of the given length,
// suitable for one-time reset codes.
func NumericCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	digits := make([]byte, length)
	for i, b := range buf {
		digits[i] = '0' + (b % 10)
	}

	return string(digits), nil
}

// EqualConstantTime reports whether a and b are equal without leaking
// the position of the first mismatch.
func EqualConstantTime(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
