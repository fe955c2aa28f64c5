package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const otpDigits = 6

var otpMax = new(big.Int).Exp(big.NewInt(10), big.NewInt(otpDigits), nil)

// randomOTP returns a zero-padded numeric code drawn uniformly from the full
// 000000-999999 range using crypto/rand.
func randomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
