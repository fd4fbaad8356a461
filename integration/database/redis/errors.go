package redis

import "errors"

var (
	// ErrEmptyConnectionURL is returned when no connection URL is provided.
	ErrEmptyConnectionURL = errors.New("empty redis connection url")
	// ErrInvalidConnectionURL is returned for URLs that are not redis:// or rediss://.
	ErrInvalidConnectionURL = errors.New("invalid redis connection url")
	// ErrNotReady is returned when Redis does not answer within the connect timeout.
	ErrNotReady = errors.New("redis not ready")
	// ErrHealthcheckFailed is returned when the health probe ping fails.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
