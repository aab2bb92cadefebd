package session

import (
	"sync"
	"time"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/ports"
)

// Meta describes what a session was opened against.
type Meta struct {
	Application string
	DriverURL   string
}

// Session is a live WebDriver session bound to one application instance.
// The client is owned exclusively by the session.
type Session struct {
	ID          string
	Application string
	DriverURL   string
	CreatedAt   time.Time
	Client      ports.Client

	mu       sync.Mutex
	timeouts domain.Timeouts
	frames   []any
}

func newSession(id string, client ports.Client, meta Meta) *Session {
	return &Session{
		ID:          id,
		Application: meta.Application,
		DriverURL:   meta.DriverURL,
		CreatedAt:   time.Now(),
		Client:      client,
		timeouts:    domain.DefaultTimeouts(),
	}
}

// Timeouts returns the timeouts last applied through this server.
// The engine offers no getter, so these are tracked locally.
func (s *Session) Timeouts() domain.Timeouts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeouts
}

// UpdateTimeouts applies fn to the tracked timeouts.
func (s *Session) UpdateTimeouts(fn func(*domain.Timeouts)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.timeouts)
}

// EnterFrame records a switch into a child frame.
func (s *Session) EnterFrame(ref any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, ref)
}

// LeaveFrame drops the innermost frame and returns the path from the top
// document to the new current frame.
func (s *Session) LeaveFrame() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
	return append([]any(nil), s.frames...)
}

// ResetFrames forgets the frame path, e.g. after switching to the top document or a window.
func (s *Session) ResetFrames() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = nil
}

// FrameDepth is the number of nested frames currently entered.
func (s *Session) FrameDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Record converts the session into its persisted form.
func (s *Session) Record(current bool) domain.SessionRecord {
	return domain.SessionRecord{
		ID:          s.ID,
		Application: s.Application,
		DriverURL:   s.DriverURL,
		Current:     current,
		CreatedAt:   s.CreatedAt,
	}
}
