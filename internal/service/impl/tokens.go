package impl

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

const secureTokenBytes = 32

// newSecureToken returns 32 random bytes hex encoded.
func newSecureToken() (string, error) {
	buf := make([]byte, secureTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// tokenMatches compares a stored pending token with the presented one.
func tokenMatches(stored *string, presented string) bool {
	if stored == nil || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(presented)) == 1
}
