// Package roomcode generates the short invite codes users exchange to join
// a room. Codes are 6 characters drawn from A-Z0-9.
package roomcode

import (
	"crypto/rand"
	"regexp"
)

const (
	Length   = 6
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// New returns a fresh random code. Uniqueness is the caller's problem; the
// store retries on collision.
func New() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf), nil
}

// Valid reports whether a user-supplied string has the code shape.
func Valid(code string) bool {
	return codePattern.MatchString(code)
}
