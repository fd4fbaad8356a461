package record

import "errors"

var (
	// ErrNotFound is returned when no record exists with the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when creating a record whose id already exists.
	ErrDuplicateID = errors.New("record id already exists")
	// ErrEmptyValue is returned for records with no scanned value.
	ErrEmptyValue = errors.New("record value cannot be empty")
	// ErrMissingID is returned for operations on a record with a zero id.
	ErrMissingID = errors.New("record id is required")
	// ErrUnknownFormat is returned for records with an unrecognized symbology.
	ErrUnknownFormat = errors.New("unknown record format")
	// ErrInvalidExport is returned when imported data is not a valid export envelope.
	ErrInvalidExport = errors.New("invalid export data")
	// ErrUnsupportedVersion is returned for export envelopes from an unknown format version.
	ErrUnsupportedVersion = errors.New("unsupported export version")
)
