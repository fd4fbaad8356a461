package totp

import "errors"

var (
	// ErrNotTOTPURI is returned when the input does not start with the
	// otpauth://totp/ prefix or is not parseable as a URI.
	ErrNotTOTPURI = errors.New("not an otpauth totp uri")
	// ErrMissingSecret is returned when the URI has no secret query parameter.
	ErrMissingSecret = errors.New("missing secret parameter")
	// ErrEmptySecret is returned when the secret is empty after stripping
	// whitespace and padding.
	ErrEmptySecret = errors.New("secret is empty")
	// ErrInvalidBase32 is returned when the secret contains characters
	// outside the RFC 4648 base32 alphabet.
	ErrInvalidBase32 = errors.New("invalid base32 character")
	// ErrWatcherAlreadyStarted is returned when Start is called on a running watcher.
	ErrWatcherAlreadyStarted = errors.New("watcher already started")
)
