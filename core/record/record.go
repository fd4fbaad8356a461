package record

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codekeep/codekeep/core/barcode"
)

// Record is one stored scan: the raw value, its symbology, and a
// user-assigned display name. Values are opaque to this package; whether a
// value is a TOTP URI is decided by the display layer at render time.
type Record struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name,omitempty"`
	Value     string         `json:"value"`
	Format    barcode.Format `json:"format"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// New builds a record with a fresh id and creation timestamps.
func New(name, value string, format barcode.Format) (Record, error) {
	rec := Record{
		ID:        uuid.New(),
		Name:      name,
		Value:     value,
		Format:    format,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Validate checks the record's structural invariants.
func (r Record) Validate() error {
	if r.ID == uuid.Nil {
		return ErrMissingID
	}
	if r.Value == "" {
		return ErrEmptyValue
	}
	if !barcode.Known(r.Format) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.Format)
	}
	return nil
}

// Store is the persistence contract for records. List returns records
// ordered by creation time, oldest first. Create fails on duplicate ids,
// Update and Delete fail with ErrNotFound for unknown ids.
type Store interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	Create(ctx context.Context, rec Record) error
	Update(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id uuid.UUID) error
}
