package collection

import (
	"crypto/rand"
	"math/big"
)

const (
	urlTokenAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	DefaultTokenLength = 12
)

// NewURLToken generates an unguessable alphanumeric capability token.
// Uniqueness is not checked here; the store enforces it through unique
// indexes and callers re-mint on collision.
func NewURLToken(length int) (string, error) {
	if length < 1 {
		length = DefaultTokenLength
	}

	alphabetLen := big.NewInt(int64(len(urlTokenAlphabet)))
	token := make([]byte, length)
	for i := range token {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		token[i] = urlTokenAlphabet[n.Int64()]
	}
	return string(token), nil
}
