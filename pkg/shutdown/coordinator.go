package shutdown

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/aretw0/tauribridge/internal/logging"
	"github.com/aretw0/tauribridge/pkg/observability"
)

// State of the coordinator.
type State int32

const (
	// Armed accepts work; no teardown has been triggered yet.
	Armed State = iota
	// ShuttingDown is entered once by the first Trigger and never left.
	ShuttingDown
)

func (s State) String() string {
	if s == ShuttingDown {
		return "shutting_down"
	}
	return "armed"
}

// DefaultTeardownTimeout bounds the whole teardown.
const DefaultTeardownTimeout = 15 * time.Second

// SessionCloser quits every tracked session. Implemented by session.Registry.
type SessionCloser interface {
	CloseAll(ctx context.Context) map[string]error
}

// DriverTerminator stops the supervised driver. Implemented by supervisor.Supervisor.
type DriverTerminator interface {
	Terminate(ctx context.Context) error
}

type hook struct {
	name string
	fn   func(ctx context.Context) error
}

// Coordinator runs teardown exactly once, whatever triggers it.
type Coordinator struct {
	state atomic.Int32

	sessions SessionCloser
	driver   DriverTerminator
	hooks    []hook
	exit     func(code int)
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics

	done   chan struct{}
	report Report
}

// Option configures the Coordinator.
type Option func(*Coordinator)

// WithExit replaces os.Exit. A nil function disables exiting.
func WithExit(exit func(code int)) Option {
	return func(c *Coordinator) {
		c.exit = exit
	}
}

// WithHook adds a teardown step that runs after sessions and the driver.
func WithHook(name string, fn func(ctx context.Context) error) Option {
	return func(c *Coordinator) {
		c.hooks = append(c.hooks, hook{name: name, fn: fn})
	}
}

// WithTeardownTimeout bounds teardown.
func WithTeardownTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger configures a logger for the Coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithMetrics counts shutdown causes.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// New creates an armed Coordinator. sessions and driver may be nil.
func New(sessions SessionCloser, driver DriverTerminator, opts ...Option) *Coordinator {
	c := &Coordinator{
		sessions: sessions,
		driver:   driver,
		exit:     os.Exit,
		timeout:  DefaultTeardownTimeout,
		logger:   logging.NewNop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddHook registers a teardown step after construction. It must be called before any trigger.
func (c *Coordinator) AddHook(name string, fn func(ctx context.Context) error) {
	c.hooks = append(c.hooks, hook{name: name, fn: fn})
}

// State returns the current state.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Done is closed when teardown has completed.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Report returns the teardown summary. Only valid after Done.
func (c *Coordinator) Report() Report {
	<-c.done
	return c.report
}

// Trigger starts teardown. It returns false when teardown already started,
// in which case the call does nothing.
func (c *Coordinator) Trigger(cause Cause, err error) bool {
	if !c.state.CompareAndSwap(int32(Armed), int32(ShuttingDown)) {
		c.logger.Debug("shutdown already in progress; ignoring trigger", "cause", cause)
		return false
	}

	c.metrics.ObserveShutdown(string(cause))
	if err != nil {
		c.logger.Error("shutting down", "cause", cause, "err", err)
	} else {
		c.logger.Info("shutting down", "cause", cause)
	}

	c.report = c.teardown(cause, err)
	close(c.done)

	if !c.report.Clean() {
		c.logger.Warn("teardown finished with errors", "report", c.report.String())
	} else {
		c.logger.Info("teardown finished", "duration", c.report.Duration)
	}

	if c.exit != nil {
		c.exit(0)
	}
	return true
}

func (c *Coordinator) teardown(cause Cause, err error) Report {
	start := time.Now()
	report := Report{Cause: cause, Err: err}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if c.sessions != nil {
		failures := c.sessions.CloseAll(ctx)
		ids := make([]string, 0, len(failures))
		for id := range failures {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			report.Errors = append(report.Errors, TeardownError{Kind: KindSessionQuit, Target: id, Err: failures[id]})
		}
	}

	if c.driver != nil {
		if err := c.driver.Terminate(ctx); err != nil {
			report.Errors = append(report.Errors, TeardownError{Kind: KindDriverTerminate, Target: "tauri-driver", Err: err})
		}
	}

	for _, h := range c.hooks {
		if err := safeHook(ctx, h); err != nil {
			report.Errors = append(report.Errors, TeardownError{Kind: KindHook, Target: h.name, Err: err})
		}
	}

	report.Duration = time.Since(start)
	return report
}

func safeHook(ctx context.Context, h hook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.fn(ctx)
}

// Watch routes SIGINT and SIGTERM to Trigger until ctx is done or teardown ran.
func (c *Coordinator) Watch(ctx context.Context) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			cause := CauseInterrupt
			if sig == syscall.SIGTERM {
				cause = CauseTerminate
			}
			c.Trigger(cause, nil)
		case <-ctx.Done():
		case <-c.done:
		}
	}()
}

// Go runs fn in a goroutine. A panic triggers a fault shutdown; a returned
// error triggers an async-error shutdown.
func (c *Coordinator) Go(name string, fn func() error) {
	go func() {
		defer c.Recover(name)
		if err := fn(); err != nil {
			c.Trigger(CauseAsyncError, fmt.Errorf("%s: %w", name, err))
		}
	}()
}

// Recover turns a panic in the calling goroutine into a fault shutdown.
// It must be deferred directly.
func (c *Coordinator) Recover(name string) {
	if r := recover(); r != nil {
		c.Trigger(CauseFault, fmt.Errorf("%s: panic: %v", name, r))
	}
}
