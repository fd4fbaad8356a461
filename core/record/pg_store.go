package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codekeep/codekeep/core/barcode"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgresStore persists records in the records table; see the migrations
// shipped with cmd/codekeepd for the schema.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// List returns all records ordered by creation time, oldest first.
func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, value, format, created_at, updated_at
		 FROM records ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec    Record
			format string
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Value, &format, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Format = barcode.Format(format)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return out, nil
}

// Get returns the record with the given id.
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	var (
		rec    Record
		format string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, value, format, created_at, updated_at
		 FROM records WHERE id = $1`, id).
		Scan(&rec.ID, &rec.Name, &rec.Value, &format, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get record: %w", err)
	}
	rec.Format = barcode.Format(format)
	return rec, nil
}

// Create stores a new record.
func (s *PostgresStore) Create(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO records (id, name, value, format, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Name, rec.Value, string(rec.Format), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

// Update replaces an existing record.
func (s *PostgresStore) Update(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE records SET name = $2, value = $3, format = $4, updated_at = $5
		 WHERE id = $1`,
		rec.ID, rec.Name, rec.Value, string(rec.Format), rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record with the given id.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
