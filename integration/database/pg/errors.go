package pg

import "errors"

var (
	// ErrEmptyConnectionString is returned when no connection string is provided.
	ErrEmptyConnectionString = errors.New("empty postgres connection string")
	// ErrInvalidConnectionString is returned for unparseable connection strings.
	ErrInvalidConnectionString = errors.New("invalid postgres connection string")
	// ErrNotReady is returned when the database does not answer within the connect timeout.
	ErrNotReady = errors.New("postgres not ready")
	// ErrHealthcheckFailed is returned when the health probe ping fails.
	ErrHealthcheckFailed = errors.New("postgres healthcheck failed")
)
