package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// redeemCodePrefix is printed on in-store vouchers, keep it stable
const redeemCodePrefix = "YB-"

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	phonePattern    = regexp.MustCompile(`^[6-9]\d{9}$`)
	// RE2 has no backreferences, so spell out "same digit 10 times".
	repeatedPattern = regexp.MustCompile(`^(0{10}|1{10}|2{10}|3{10}|4{10}|5{10}|6{10}|7{10}|8{10}|9{10})$`)
)

// GenerateRedeemCode generates a fresh redemption code: the fixed prefix
// plus 6 crypto-random base36 characters. ~2.2 billion combinations, and
// the unique index on the participant collection catches the improbable
// collision.
func GenerateRedeemCode() (string, error) {
	suffix, err := randomBase36(6)
	if err != nil {
		return "", fmt.Errorf("failed to generate redeem code: %w", err)
	}
	return redeemCodePrefix + suffix, nil
}

// GenerateOTP generates a 6-digit one-time password
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// IsValidPhone reports whether phone is a plausible Indian mobile number:
// 10 digits starting 6-9, and not a repeated-digit vanity number.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone) && !repeatedPattern.MatchString(phone)
}

// MaskPhone masks all but the last 4 digits of a phone number
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

func randomBase36(length int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(base36Alphabet[n.Int64()])
	}
	return b.String(), nil
}
