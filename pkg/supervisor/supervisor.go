package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/tauribridge/internal/logging"
	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/ports"
)

// Supervisor launches, tracks and terminates a single tauri-driver process.
type Supervisor struct {
	path          string
	args          []string
	readyTimeout  time.Duration
	readyInterval time.Duration
	settle        time.Duration
	grace         time.Duration
	lockTTL       time.Duration
	owner         string

	store  ports.RecordStore
	locker ports.DistributedLocker
	logger *slog.Logger

	mu     sync.Mutex
	handle *Handle
	closed bool
}

// New creates a Supervisor. Nothing is spawned until EnsureStarted.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{
		readyTimeout:  DefaultReadyTimeout,
		readyInterval: DefaultReadyInterval,
		grace:         DefaultGracePeriod,
		lockTTL:       DefaultLockTTL,
		owner:         defaultOwner(),
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Owner is the tag written into persisted driver records.
func (s *Supervisor) Owner() string {
	return s.owner
}

// Current returns the tracked driver, if any.
func (s *Supervisor) Current() (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle, s.handle != nil
}

// EnsureStarted returns the live tracked driver or launches a new one on port.
// A tracked driver that has exited is forgotten and replaced. Once Terminate
// has been called nothing is launched again and domain.ErrShuttingDown is returned.
func (s *Supervisor) EnsureStarted(ctx context.Context, port int) (*Handle, error) {
	if port <= 0 {
		port = domain.DefaultDriverPort
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrShuttingDown
	}

	if h := s.handle; h != nil {
		if h.Alive() {
			if h.Port != port {
				s.logger.Warn("driver already running on a different port; reusing it",
					"requested_port", port, "port", h.Port, "pid", h.PID)
			}
			return h, nil
		}
		s.logger.Warn("tracked driver has exited; relaunching", "pid", h.PID, "port", h.Port, "err", h.Err())
		s.handle = nil
		s.forget(ctx, h.Port)
	}

	path, err := s.resolvePath()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLaunchFailed, err)
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, "driver:"+strconv.Itoa(port), s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to acquire launch lock: %v", domain.ErrLaunchFailed, err)
		}
		defer func() {
			if err := unlock(context.Background()); err != nil {
				s.logger.Warn("failed to release launch lock", "port", port, "err", err)
			}
		}()
	}

	h, err := s.spawn(path, port)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLaunchFailed, err)
	}

	if err := s.awaitReady(ctx, h); err != nil {
		s.stop(ctx, h)
		return nil, fmt.Errorf("%w: %v", domain.ErrLaunchFailed, err)
	}

	s.handle = h
	s.remember(ctx, h)
	s.logger.Info("tauri-driver started", "pid", h.PID, "port", h.Port, "path", h.Path)
	return h, nil
}

// Terminate stops the tracked driver and its process group.
// The handle and its persisted record are cleared on every path. The returned
// error is informational; the driver is gone or unreachable either way.
// The supervisor launches nothing afterwards.
func (s *Supervisor) Terminate(ctx context.Context) error {
	s.mu.Lock()
	h := s.handle
	s.handle = nil
	s.closed = true
	s.mu.Unlock()

	if h == nil {
		return nil
	}
	defer s.forget(ctx, h.Port)

	return s.stop(ctx, h)
}

func (s *Supervisor) spawn(path string, port int) (*Handle, error) {
	args := append([]string{"--port", strconv.Itoa(port)}, s.args...)

	// Not CommandContext: the driver outlives the request that started it.
	cmd := exec.Command(path, args...)
	cmd.Stdin = nil
	cmd.Stdout = &lineLogger{logger: s.logger, stream: "stdout"}
	cmd.Stderr = &lineLogger{logger: s.logger, stream: "stderr"}
	// Grandchildren may keep the output pipes open after the leader exits.
	cmd.WaitDelay = time.Second
	configureCommand(cmd)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", path, err)
	}

	h := &Handle{
		PID:       cmd.Process.Pid,
		PGID:      cmd.Process.Pid,
		Port:      port,
		Path:      path,
		StartedAt: time.Now(),
		cmd:       cmd,
		done:      make(chan struct{}),
	}
	go h.wait()

	s.logger.Debug("spawned driver", "pid", h.PID, "port", port, "args", args)
	return h, nil
}

func (s *Supervisor) awaitReady(ctx context.Context, h *Handle) error {
	if s.settle > 0 {
		select {
		case <-h.Done():
			return exitedEarly(h)
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.settle):
		}
		if !h.Alive() {
			return exitedEarly(h)
		}
		return nil
	}

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(h.Port))
	deadline := time.NewTimer(s.readyTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.readyInterval)
	defer ticker.Stop()

	for {
		conn, err := net.DialTimeout("tcp", addr, s.readyInterval)
		if err == nil {
			conn.Close()
			// A port answered, but it must be ours.
			if !h.Alive() {
				return exitedEarly(h)
			}
			return nil
		}

		select {
		case <-h.Done():
			return exitedEarly(h)
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("driver did not accept connections on %s within %s", addr, s.readyTimeout)
		case <-ticker.C:
		}
	}
}

// stop asks the leader to exit, waits for the grace period, then kills the group.
func (s *Supervisor) stop(ctx context.Context, h *Handle) error {
	var errs []error

	if h.Alive() {
		if err := signalTerminate(h.PID); err != nil {
			errs = append(errs, fmt.Errorf("failed to send terminate signal to %d: %w", h.PID, err))
		}

		timer := time.NewTimer(s.grace)
		select {
		case <-h.Done():
		case <-timer.C:
			s.logger.Warn("driver ignored terminate signal; killing process group", "pid", h.PID, "pgid", h.PGID)
		case <-ctx.Done():
		}
		timer.Stop()
	}

	// Always sweep the group: the leader may have left children behind.
	if err := killGroup(h.PGID); err != nil {
		errs = append(errs, fmt.Errorf("failed to kill process group %d: %w", h.PGID, err))
	}

	select {
	case <-h.Done():
	case <-time.After(s.grace + time.Second):
		errs = append(errs, fmt.Errorf("driver %d did not exit after kill", h.PID))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.logger.Info("tauri-driver terminated", "pid", h.PID, "port", h.Port)
	return nil
}

func (s *Supervisor) remember(ctx context.Context, h *Handle) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveDriver(ctx, h.Record(s.owner)); err != nil {
		s.logger.Warn("failed to persist driver record", "port", h.Port, "err", err)
	}
}

func (s *Supervisor) forget(ctx context.Context, port int) {
	if s.store == nil {
		return
	}
	if err := s.store.DeleteDriver(ctx, port); err != nil {
		s.logger.Warn("failed to delete driver record", "port", port, "err", err)
	}
}

// resolvePath picks the driver binary: explicit path, $TAURI_DRIVER_PATH,
// ~/.cargo/bin/tauri-driver, then $PATH.
func (s *Supervisor) resolvePath() (string, error) {
	if s.path != "" {
		return s.path, nil
	}
	if p := os.Getenv(EnvDriverPath); p != "" {
		return p, nil
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".cargo", "bin", BinaryName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if p, err := exec.LookPath(BinaryName); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("%s not found; install it with `cargo install tauri-driver` or set %s", BinaryName, EnvDriverPath)
}

func exitedEarly(h *Handle) error {
	if err := h.Err(); err != nil {
		return fmt.Errorf("driver exited before becoming ready: %w", err)
	}
	return errors.New("driver exited before becoming ready")
}

func defaultOwner() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return host + ":" + strconv.Itoa(os.Getpid())
}
