package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/aretw0/tauribridge/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the adapters write.
const DefaultPrefix = "tauribridge:"

// Store implements ports.RecordStore using Redis hashes.
// Driver records live in <prefix>drivers (field = port), sessions in <prefix>sessions (field = id).
type Store struct {
	client *backend.Client
	prefix string
}

// Option configures the Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client so a Locker can share the connection.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Prefix returns the key prefix in use.
func (s *Store) Prefix() string {
	return s.prefix
}

func (s *Store) driversKey() string  { return s.prefix + "drivers" }
func (s *Store) sessionsKey() string { return s.prefix + "sessions" }

// SaveDriver stores the driver record.
func (s *Store) SaveDriver(ctx context.Context, rec domain.DriverRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal driver record: %w", err)
	}
	if err := s.client.HSet(ctx, s.driversKey(), strconv.Itoa(rec.Port), data).Err(); err != nil {
		return fmt.Errorf("failed to save driver record to redis: %w", err)
	}
	return nil
}

// LoadDriver retrieves the driver record for a port.
func (s *Store) LoadDriver(ctx context.Context, port int) (domain.DriverRecord, error) {
	var rec domain.DriverRecord

	val, err := s.client.HGet(ctx, s.driversKey(), strconv.Itoa(port)).Result()
	if err != nil {
		if err == backend.Nil {
			return rec, domain.ErrRecordNotFound
		}
		return rec, fmt.Errorf("failed to get driver record from redis: %w", err)
	}
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return rec, fmt.Errorf("failed to unmarshal driver record: %w", err)
	}
	return rec, nil
}

// DeleteDriver removes the driver record.
func (s *Store) DeleteDriver(ctx context.Context, port int) error {
	return s.client.HDel(ctx, s.driversKey(), strconv.Itoa(port)).Err()
}

// ListDrivers returns all driver records ordered by port.
func (s *Store) ListDrivers(ctx context.Context) ([]domain.DriverRecord, error) {
	vals, err := s.client.HVals(ctx, s.driversKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list driver records: %w", err)
	}

	out := make([]domain.DriverRecord, 0, len(vals))
	for _, v := range vals {
		var rec domain.DriverRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal driver record: %w", err)
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Port < out[j].Port })
	return out, nil
}

// SaveSession stores the session record.
func (s *Store) SaveSession(ctx context.Context, rec domain.SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}
	if err := s.client.HSet(ctx, s.sessionsKey(), rec.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to save session record to redis: %w", err)
	}
	return nil
}

// DeleteSession removes the session record.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.client.HDel(ctx, s.sessionsKey(), id).Err()
}

// ListSessions returns all session records ordered by creation time.
func (s *Store) ListSessions(ctx context.Context) ([]domain.SessionRecord, error) {
	vals, err := s.client.HVals(ctx, s.sessionsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list session records: %w", err)
	}

	out := make([]domain.SessionRecord, 0, len(vals))
	for _, v := range vals {
		var rec domain.SessionRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session record: %w", err)
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
