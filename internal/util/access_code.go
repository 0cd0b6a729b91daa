package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	AccessCodeLength   = 8
	accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateAccessCode returns a random code of AccessCodeLength characters over [A-Z0-9].
func GenerateAccessCode() (string, error) {
	var sb strings.Builder
	sb.Grow(AccessCodeLength)
	base := big.NewInt(int64(len(accessCodeAlphabet)))
	for i := 0; i < AccessCodeLength; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("failed to generate access code: %w", err)
		}
		sb.WriteByte(accessCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeAccessCode trims and upper-cases a caller-supplied code.
func NormalizeAccessCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidAccessCode reports whether code is already normalized and well formed.
func IsValidAccessCode(code string) bool {
	if len(code) != AccessCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(accessCodeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
