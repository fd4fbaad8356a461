package totp

import (
	"fmt"
	"unicode"
)

// base32 alphabet per RFC 4648. The decoder is written by hand rather than
// using encoding/base32 because real-world secrets routinely arrive unpadded,
// lowercased, or with embedded spaces, and the standard decoder rejects
// lengths that are not a multiple of 8.
const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

var base32Values = func() [256]int8 {
	var table [256]int8
	for i := range table {
		table[i] = -1
	}
	for i, c := range base32Alphabet {
		table[c] = int8(i)
		table[unicode.ToLower(c)] = int8(i)
	}
	return table
}()

// DecodeSecret decodes a base32-encoded shared secret into raw key bytes.
// Whitespace is ignored, case is insensitive, and trailing '=' padding is
// optional. Incomplete trailing bit groups are discarded, matching standard
// base32 semantics for unpadded input.
func DecodeSecret(secret string) ([]byte, error) {
	var (
		out    []byte
		buffer uint16
		bits   uint8
	)

	for _, c := range secret {
		if unicode.IsSpace(c) || c == '=' {
			continue
		}
		if c > 255 || base32Values[c] < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBase32, c)
		}

		buffer = buffer<<5 | uint16(base32Values[c])
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buffer>>bits))
		}
	}

	if len(out) == 0 {
		return nil, ErrEmptySecret
	}
	return out, nil
}
