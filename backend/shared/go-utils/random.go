// go-utils/random.go

package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// MinTokenBytes is the smallest amount of entropy accepted for emailed
// confirmation / registration tokens.
const MinTokenBytes = 24

// RandomHexToken returns nBytes of crypto/rand entropy, hex encoded.
func RandomHexToken(nBytes int) (string, error) {
	if nBytes < MinTokenBytes {
		return "", fmt.Errorf("token needs at least %d bytes of entropy, got %d", MinTokenBytes, nBytes)
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashToken is the at-rest form of an emailed token. Only the recipient ever
// sees the raw value.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
