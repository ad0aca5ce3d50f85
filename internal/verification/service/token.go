package service

import (
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/crypto/blake2b"
)

const tokenBytes = 32

// newToken returns an opaque single-use token and the hash that is stored.
func newToken() (string, []byte, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	return token, hashToken(token), nil
}

func hashToken(token string) []byte {
	sum := blake2b.Sum256([]byte(token))
	return sum[:]
}
