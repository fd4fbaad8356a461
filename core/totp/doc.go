// Package totp implements RFC 6238 time-based one-time password generation
// for otpauth://totp/ URIs, plus a per-second refresh watcher that drives
// live code displays.
//
// The package is built around a fixed configuration matching the common
// authenticator-app defaults: HMAC-SHA1, 6 digits, 30-second period. URI
// parameters that would change these (algorithm, digits, period) are ignored.
//
// # Generating codes
//
//	code, err := totp.GenerateCode("JBSWY3DPEHPK3PXP")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(code) // "492039"
//
// Codes for a specific time (useful in tests) and for the next window:
//
//	code, err := totp.GenerateCodeAt(secret, time.Unix(59, 0))
//	next, err := totp.GenerateNextCode(secret)
//
// # Parsing provisioning URIs
//
//	uri, err := totp.ParseURI("otpauth://totp/Example:alice@example.com?secret=JBSWY3DPEHPK3PXP&issuer=Example")
//	if err != nil {
//		// not a TOTP URI; treat the value as plain text
//	}
//	fmt.Println(uri.Label, uri.Issuer)
//
// # Live display
//
// A Watcher owns one ticker per displayed URI. It emits an initial tick
// immediately, then one tick per second, re-deriving the code exactly once
// per 30-second window:
//
//	w, err := totp.NewWatcher(rawURI)
//	if err != nil {
//		// not a TOTP URI
//	}
//	ticks, err := w.Start(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for tick := range ticks {
//		fmt.Printf("%s (%ds left)\n", tick.Code, tick.Remaining)
//	}
//
// The tick channel is closed when the context is cancelled or Stop is
// called; no ticks are delivered after that. If derivation fails inside the
// loop the tick carries the literal marker ErrorCode instead of digits and
// the countdown keeps running.
package totp
