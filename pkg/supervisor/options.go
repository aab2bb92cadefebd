package supervisor

import (
	"log/slog"
	"time"

	"github.com/aretw0/tauribridge/pkg/ports"
)

const (
	// DefaultReadyTimeout bounds how long a freshly spawned driver may take to accept connections.
	DefaultReadyTimeout = 10 * time.Second
	// DefaultReadyInterval is the pause between readiness probes.
	DefaultReadyInterval = 100 * time.Millisecond
	// DefaultGracePeriod is how long Terminate waits after SIGTERM before killing the group.
	DefaultGracePeriod = 3 * time.Second
	// DefaultLockTTL bounds the launch lock taken when a DistributedLocker is configured.
	DefaultLockTTL = 30 * time.Second
	// BinaryName is the driver executable looked up when no path is configured.
	BinaryName = "tauri-driver"
	// EnvDriverPath overrides the driver location.
	EnvDriverPath = "TAURI_DRIVER_PATH"
)

// Option configures the Supervisor.
type Option func(*Supervisor)

// WithPath sets an explicit driver binary.
func WithPath(path string) Option {
	return func(s *Supervisor) {
		s.path = path
	}
}

// WithArgs appends extra arguments after --port <n>.
func WithArgs(args ...string) Option {
	return func(s *Supervisor) {
		s.args = append(s.args, args...)
	}
}

// WithReadyTimeout sets the readiness deadline.
func WithReadyTimeout(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.readyTimeout = d
		}
	}
}

// WithReadyInterval sets the pause between readiness probes.
func WithReadyInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.readyInterval = d
		}
	}
}

// WithFixedSettle replaces the readiness probe with a fixed delay after spawning.
// The driver is still required to be alive once the delay has elapsed.
func WithFixedSettle(d time.Duration) Option {
	return func(s *Supervisor) {
		s.settle = d
	}
}

// WithGracePeriod sets how long Terminate waits for a graceful exit.
func WithGracePeriod(d time.Duration) Option {
	return func(s *Supervisor) {
		if d >= 0 {
			s.grace = d
		}
	}
}

// WithStore persists driver records for stale-driver reaping.
func WithStore(store ports.RecordStore) Option {
	return func(s *Supervisor) {
		s.store = store
	}
}

// WithLocker serialises launches on the same port across servers sharing a store.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(s *Supervisor) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Supervisor.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Supervisor) {
		s.logger = logger
	}
}

// WithOwner overrides the owner tag written to driver records (default host:pid).
func WithOwner(owner string) Option {
	return func(s *Supervisor) {
		s.owner = owner
	}
}
