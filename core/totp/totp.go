package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"time"
)

// ErrorCode is rendered in place of digits when derivation fails. The
// display layer shows it verbatim instead of a blank or stale code.
const ErrorCode = "Error"

// GenerateCode derives the 6-digit code for the current 30-second window
// from a base32-encoded secret.
func GenerateCode(secret string) (string, error) {
	return generateCode(secret, CurrentStep())
}

// GenerateCodeAt derives the code for the window containing t. Intended for
// tests and for verifying against reference implementations at fixed
// timestamps.
func GenerateCodeAt(secret string, t time.Time) (string, error) {
	return generateCode(secret, StepAt(t))
}

// GenerateNextCode derives the code for the window after the current one.
// It advances the step counter rather than wall-clock time, so there is no
// drift at window boundaries.
func GenerateNextCode(secret string) (string, error) {
	return generateCode(secret, CurrentStep()+1)
}

// GenerateNextCodeAt derives the code for the window after the one
// containing t.
func GenerateNextCodeAt(secret string, t time.Time) (string, error) {
	return generateCode(secret, StepAt(t)+1)
}

func generateCode(secret string, step uint64) (string, error) {
	key, err := DecodeSecret(secret)
	if err != nil {
		return "", err
	}
	return hotp(key, step), nil
}

// hotp computes the RFC 4226 dynamic-truncation code for a counter value.
func hotp(key []byte, counter uint64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	// Last nibble of the digest selects the truncation offset; the top bit
	// of the extracted word is cleared to keep the value a 31-bit integer.
	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%06d", value%1_000_000)
}
