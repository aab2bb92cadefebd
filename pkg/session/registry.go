package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/tauribridge/internal/logging"
	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/ports"
	"github.com/oklog/ulid/v2"
)

// Registry is the process-wide set of sessions plus the current pointer.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	current  string
	closed   bool

	store  ports.RecordStore
	logger *slog.Logger
	newID  func() string
}

// Option configures the Registry.
type Option func(*Registry)

// WithStore mirrors session records into store.
func WithStore(store ports.RecordStore) Option {
	return func(r *Registry) {
		r.store = store
	}
}

// WithLogger configures a logger for the Registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithIDGenerator replaces the default tauri_<ulid> identifiers.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		r.newID = fn
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		logger:   logging.NewNop(),
		newID:    NewID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewID returns a new time-ordered session identifier.
func NewID() string {
	return domain.SessionIDPrefix + ulid.Make().String()
}

// Create registers a session for client and makes it current.
// An existing current session stays tracked until CloseAll. After CloseAll
// every Create fails with domain.ErrShuttingDown and the caller keeps client.
func (r *Registry) Create(ctx context.Context, client ports.Client, meta Meta) (*Session, error) {
	if client == nil {
		return nil, errors.New("session client is required")
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, domain.ErrShuttingDown
	}
	id := r.newID()
	if _, exists := r.sessions[id]; exists {
		r.mu.Unlock()
		return nil, fmt.Errorf("duplicate session id %q", id)
	}

	previous := r.sessions[r.current]
	sess := newSession(id, client, meta)
	r.sessions[id] = sess
	r.current = id
	r.mu.Unlock()

	if previous != nil {
		r.logger.Warn("session displaced; it stays open until shutdown",
			"previous_session_id", previous.ID, "session_id", id)
		r.persist(ctx, previous, false)
	}
	r.persist(ctx, sess, true)
	r.logger.Info("session created", "session_id", id, "application", meta.Application)
	return sess, nil
}

// Current returns the current session or domain.ErrNoActiveSession.
func (r *Registry) Current() (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[r.current]
	if !ok {
		return nil, domain.ErrNoActiveSession
	}
	return sess, nil
}

// Get returns a tracked session by id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Close quits the current session. The entry is removed and the current
// pointer cleared even when the remote quit fails; that failure is returned.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	sess, ok := r.sessions[r.current]
	if !ok {
		r.mu.Unlock()
		return domain.ErrNoActiveSession
	}
	delete(r.sessions, sess.ID)
	r.current = ""
	r.mu.Unlock()

	r.unpersist(ctx, sess.ID)

	if err := quit(ctx, sess); err != nil {
		r.logger.Warn("failed to quit session", "session_id", sess.ID, "err", err)
		return fmt.Errorf("failed to quit session %s: %w", sess.ID, err)
	}
	r.logger.Info("session closed", "session_id", sess.ID)
	return nil
}

// CloseAll quits every tracked session, current or displaced, and empties the registry.
// Sessions are quit concurrently and none outlives ctx. One error is returned
// per session whose quit failed. The registry accepts no sessions afterwards.
func (r *Registry) CloseAll(ctx context.Context) map[string]error {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.current = ""
	r.closed = true
	r.mu.Unlock()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		failures = make(map[string]error)
	)
	for id, sess := range sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.unpersist(ctx, id)
			if err := quit(ctx, sess); err != nil {
				r.logger.Warn("failed to quit session", "session_id", id, "err", err)
				mu.Lock()
				failures[id] = err
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return failures
}

// quit gives up on a remote that does not answer before ctx ends.
// The Quit call itself keeps running in the background.
func quit(ctx context.Context, sess *Session) error {
	done := make(chan error, 1)
	go func() {
		done <- sess.Client.Quit()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("gave up waiting for remote: %w", ctx.Err())
	}
}

// List returns all tracked sessions, oldest first.
func (r *Registry) List() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len is the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CurrentID returns the current session id, or "" when none.
func (r *Registry) CurrentID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Registry) persist(ctx context.Context, sess *Session, current bool) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveSession(ctx, sess.Record(current)); err != nil {
		r.logger.Warn("failed to persist session record", "session_id", sess.ID, "err", err)
	}
}

func (r *Registry) unpersist(ctx context.Context, id string) {
	if r.store == nil {
		return
	}
	if err := r.store.DeleteSession(ctx, id); err != nil {
		r.logger.Warn("failed to delete session record", "session_id", id, "err", err)
	}
}
