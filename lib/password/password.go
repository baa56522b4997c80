// Package password is the credential-hashing collaborator: salted password
// digests with constant-time verification. Digests and salts are
// base64-encoded strings so they embed directly in the JSON snapshot.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen    = 16
	iterations = 4096
	keyLen     = 32
)

// GenerateSalt returns a new random base64-encoded salt.
func GenerateSalt() (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// Hash derives a digest from the password and the base64-encoded salt.
func Hash(password, salt string) (string, error) {
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), rawSalt, iterations, keyLen, sha256.New)
	return base64.StdEncoding.EncodeToString(key), nil
}

// Verify reports whether the password matches the stored digest under the
// given salt. The comparison is constant-time.
func Verify(password, digest, salt string) bool {
	computed, err := Hash(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
