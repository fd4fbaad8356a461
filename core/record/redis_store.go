package record

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// defaultRedisKey is the hash under which all records are stored, one field
// per record id.
const defaultRedisKey = "codekeep:records"

// RedisStore persists records in a Redis hash. Each record is a JSON blob
// keyed by its id, so single-record operations stay O(1) while List pays
// one HGETALL.
type RedisStore struct {
	client *redis.Client
	key    string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKey overrides the hash key used for storage.
func WithRedisKey(key string) RedisStoreOption {
	return func(s *RedisStore) {
		if key != "" {
			s.key = key
		}
	}
}

// NewRedisStore creates a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		key:    defaultRedisKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all records ordered by creation time, oldest first.
func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	out := make([]Record, 0, len(fields))
	for id, raw := range fields {
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", id, err)
		}
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b Record) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

// Get returns the record with the given id.
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	raw, err := s.client.HGet(ctx, s.key, id.String()).Result()
	if err == redis.Nil {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, fmt.Errorf("decode record %s: %w", id, err)
	}
	return rec, nil
}

// Create stores a new record, failing if the id is already present.
func (s *RedisStore) Create(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	created, err := s.client.HSetNX(ctx, s.key, rec.ID.String(), raw).Result()
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	if !created {
		return ErrDuplicateID
	}
	return nil
}

// Update replaces an existing record.
func (s *RedisStore) Update(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	exists, err := s.client.HExists(ctx, s.key, rec.ID.String()).Result()
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, rec.ID.String(), raw).Err(); err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// Delete removes the record with the given id.
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.client.HDel(ctx, s.key, id.String()).Result()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}
