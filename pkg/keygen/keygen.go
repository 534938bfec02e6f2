package keygen

import (
	"crypto/rand"
	"encoding/hex"
)

// resetTokenBytes is the entropy of a password reset token. 32 bytes
// encodes to 64 hex characters.
const resetTokenBytes = 32

// GenerateResetToken generates a cryptographically random password
// reset token, hex encoded.
func GenerateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
