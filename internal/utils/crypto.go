// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	CodeCharset  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	DigitCharset = "0123456789"
)

// RandomString draws length characters uniformly from charset.
func RandomString(charset string, length int) (string, error) {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}
	return string(b), nil
}

// RandomCode returns an upper-case code without the easily confused
// characters 0, O, 1 and I. Used for generated SKUs.
func RandomCode(length int) (string, error) {
	return RandomString(CodeCharset, length)
}
