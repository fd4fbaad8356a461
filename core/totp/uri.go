package totp

import (
	"fmt"
	"net/url"
	"strings"
)

// URIPrefix is the mandatory scheme-and-type prefix of a TOTP provisioning URI.
const URIPrefix = "otpauth://totp/"

// URI holds the fields extracted from an otpauth://totp/ provisioning URI.
// It is transient: parsed fresh from a record's value each time it is
// displayed, never persisted.
type URI struct {
	// Secret is the base32-encoded shared secret, exactly as it appears in
	// the query string.
	Secret string
	// Label is the URL-decoded path segment after "totp/", typically
	// "Issuer:account". May be empty.
	Label string
	// Issuer is the optional issuer query parameter. May be empty.
	Issuer string
}

// IsURI reports whether raw looks like a TOTP provisioning URI. Display
// layers use this to decide between live-code rendering and plain text.
func IsURI(raw string) bool {
	return strings.HasPrefix(raw, URIPrefix)
}

// ParseURI parses an otpauth://totp/ provisioning URI. The secret query
// parameter is mandatory; issuer is optional. Any other parameters
// (algorithm, digits, period) are ignored. A value that is not a TOTP URI
// yields ErrNotTOTPURI so callers can fall back to plain-text treatment.
func ParseURI(raw string) (*URI, error) {
	if !IsURI(raw) {
		return nil, fmt.Errorf("%w: missing %s prefix", ErrNotTOTPURI, URIPrefix)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotTOTPURI, err)
	}

	query := u.Query()
	secret := query.Get("secret")
	if secret == "" {
		return nil, ErrMissingSecret
	}

	return &URI{
		Secret: secret,
		Label:  strings.TrimPrefix(u.Path, "/"),
		Issuer: query.Get("issuer"),
	}, nil
}
