package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/tauribridge/pkg/domain"
)

// Store implements ports.RecordStore in memory.
// Safe for concurrent use.
type Store struct {
	drivers  map[int]domain.DriverRecord
	sessions map[string]domain.SessionRecord
	mu       sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		drivers:  make(map[int]domain.DriverRecord),
		sessions: make(map[string]domain.SessionRecord),
	}
}

// SaveDriver stores the driver record keyed by port.
func (s *Store) SaveDriver(ctx context.Context, rec domain.DriverRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers[rec.Port] = rec
	return nil
}

// LoadDriver retrieves the driver record for a port.
func (s *Store) LoadDriver(ctx context.Context, port int) (domain.DriverRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.drivers[port]
	if !ok {
		return domain.DriverRecord{}, domain.ErrRecordNotFound
	}
	return rec, nil
}

// DeleteDriver removes the driver record.
func (s *Store) DeleteDriver(ctx context.Context, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drivers, port)
	return nil
}

// ListDrivers returns the driver records ordered by port.
func (s *Store) ListDrivers(ctx context.Context) ([]domain.DriverRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DriverRecord, 0, len(s.drivers))
	for _, rec := range s.drivers {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Port < out[j].Port })
	return out, nil
}

// SaveSession stores the session record.
func (s *Store) SaveSession(ctx context.Context, rec domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[rec.ID] = rec
	return nil
}

// DeleteSession removes the session record.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// ListSessions returns the session records ordered by creation time.
func (s *Store) ListSessions(ctx context.Context) ([]domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SessionRecord, 0, len(s.sessions))
	for _, rec := range s.sessions {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
