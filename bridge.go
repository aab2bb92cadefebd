package tauribridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tauribridge/internal/logging"
	"github.com/aretw0/tauribridge/pkg/adapters/webdriver"
	"github.com/aretw0/tauribridge/pkg/commands"
	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/executor"
	"github.com/aretw0/tauribridge/pkg/observability"
	"github.com/aretw0/tauribridge/pkg/ports"
	"github.com/aretw0/tauribridge/pkg/session"
	"github.com/aretw0/tauribridge/pkg/shutdown"
	"github.com/aretw0/tauribridge/pkg/supervisor"
)

// Driver manages the tauri-driver process. Implemented by supervisor.Supervisor.
type Driver interface {
	EnsureStarted(ctx context.Context, port int) (*supervisor.Handle, error)
	Current() (*supervisor.Handle, bool)
	Terminate(ctx context.Context) error
	Owner() string
}

// Bridge is the high-level entry point. It wires the driver supervisor, the
// session registry and the command catalogue behind a single Call method.
type Bridge struct {
	catalogue   *commands.Catalogue
	registry    *session.Registry
	driver      Driver
	dialer      ports.Dialer
	executor    *executor.Executor
	coordinator *shutdown.Coordinator

	metrics      *observability.Metrics
	logger       *slog.Logger
	port         int
	browserName  string
	capabilities map[string]any
	shutdownOpts []shutdown.Option

	// startMu serialises start_tauri_app so two launches never race for the port.
	startMu sync.Mutex
}

// Option defines a functional option for configuring the Bridge.
type Option func(*Bridge)

// WithDialer replaces the WebDriver dialer.
func WithDialer(d ports.Dialer) Option {
	return func(b *Bridge) {
		b.dialer = d
	}
}

// WithDriver replaces the default tauri-driver supervisor.
func WithDriver(d Driver) Option {
	return func(b *Bridge) {
		b.driver = d
	}
}

// WithRegistry injects a session registry, e.g. one mirrored into a store.
func WithRegistry(r *session.Registry) Option {
	return func(b *Bridge) {
		b.registry = r
	}
}

// WithExecutor injects a command executor with custom timeouts.
func WithExecutor(e *executor.Executor) Option {
	return func(b *Bridge) {
		b.executor = e
	}
}

// WithCatalogue replaces the built-in session commands.
// The lifecycle commands are always registered on top of it.
func WithCatalogue(c *commands.Catalogue) Option {
	return func(b *Bridge) {
		b.catalogue = c
	}
}

// WithMetrics records command, driver and session metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(b *Bridge) {
		b.metrics = m
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDriverPort sets the port used when start_tauri_app does not pass one.
func WithDriverPort(port int) Option {
	return func(b *Bridge) {
		if port > 0 {
			b.port = port
		}
	}
}

// WithBrowserName overrides the browserName capability.
func WithBrowserName(name string) Option {
	return func(b *Bridge) {
		if name != "" {
			b.browserName = name
		}
	}
}

// WithCapabilities merges extra capabilities into every new session.
func WithCapabilities(caps map[string]any) Option {
	return func(b *Bridge) {
		b.capabilities = caps
	}
}

// WithShutdownOptions configures the teardown coordinator.
// Without shutdown.WithExit the Bridge never exits the process.
func WithShutdownOptions(opts ...shutdown.Option) Option {
	return func(b *Bridge) {
		b.shutdownOpts = append(b.shutdownOpts, opts...)
	}
}

// New creates a Bridge. Every dependency has a working default.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		logger:      logging.NewNop(),
		port:        domain.DefaultDriverPort,
		browserName: domain.BrowserName,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.catalogue == nil {
		b.catalogue = commands.Default()
	}
	if b.registry == nil {
		b.registry = session.NewRegistry(session.WithLogger(b.logger))
	}
	if b.driver == nil {
		b.driver = supervisor.New(supervisor.WithLogger(b.logger))
	}
	if b.dialer == nil {
		b.dialer = webdriver.NewDialer(webdriver.WithLogger(b.logger))
	}
	if b.executor == nil {
		b.executor = executor.New(executor.WithMetrics(b.metrics), executor.WithLogger(b.logger))
	}

	shutdownOpts := []shutdown.Option{
		shutdown.WithExit(nil),
		shutdown.WithLogger(b.logger),
		shutdown.WithMetrics(b.metrics),
		shutdown.WithHook("metrics", func(ctx context.Context) error {
			b.metrics.SetSessions(0)
			b.metrics.ObserveDriverStopped()
			return nil
		}),
	}
	b.coordinator = shutdown.New(b.registry, b.driver, append(shutdownOpts, b.shutdownOpts...)...)

	b.catalogue.Register(b.startCommand())
	b.catalogue.Register(b.closeCommand())
	return b
}

// Commands lists every command in catalogue order.
func (b *Bridge) Commands() []commands.Descriptor {
	return b.catalogue.List()
}

// Registry exposes the session registry.
func (b *Bridge) Registry() *session.Registry {
	return b.registry
}

// Coordinator exposes the teardown coordinator, for signal handling and supervised goroutines.
func (b *Bridge) Coordinator() *shutdown.Coordinator {
	return b.coordinator
}

// Shutdown tears down every session and the driver. Only the first call does anything.
func (b *Bridge) Shutdown(cause shutdown.Cause, err error) bool {
	return b.coordinator.Trigger(cause, err)
}

// Call runs the named command. It never returns a Go error: unknown commands,
// invalid arguments, a missing session, timeouts and panics all come back as
// a failed Result.
func (b *Bridge) Call(ctx context.Context, name string, args map[string]any) domain.Result {
	d, err := b.catalogue.Lookup(name)
	if err != nil {
		return domain.Failure("Error", err)
	}
	if b.coordinator.State() != shutdown.Armed {
		return domain.Failure(d.Label, domain.ErrShuttingDown)
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := d.Validate(args); err != nil {
		return domain.Failure(d.Label, err)
	}

	return b.executor.Execute(ctx, executor.Action{
		Label:     d.Label,
		Command:   d.Name,
		SessionID: b.registry.CurrentID(),
		Timeout:   b.executor.WaitTimeout(commands.TimeoutMillis(args)),
		Run: func(ctx context.Context, wait time.Duration) (domain.Result, error) {
			call := commands.Call{Wait: wait, Args: args}
			if d.NeedsSession {
				sess, err := b.registry.Current()
				if err != nil {
					return domain.Result{}, err
				}
				call.Session, call.Client = sess, sess.Client
			}
			return d.Handler(ctx, call)
		},
	})
}

// Status describes the current session the way the status resource reports it.
func (b *Bridge) Status() string {
	if id := b.registry.CurrentID(); id != "" {
		return "Active Tauri session: " + id
	}
	return "No active Tauri session"
}

// Health is the operator snapshot served on /healthz.
func (b *Bridge) Health() domain.Health {
	h := domain.Health{
		Status:   domain.HealthOK,
		Version:  Version,
		Session:  b.registry.CurrentID(),
		Sessions: b.registry.Len(),
	}
	if handle, ok := b.driver.Current(); ok && handle.Alive() {
		rec := handle.Record(b.driver.Owner())
		h.Driver = &rec
	}
	if b.coordinator.State() != shutdown.Armed {
		h.Status = domain.HealthStopping
		h.ShuttingDown = true
	}
	return h
}

func (b *Bridge) startCommand() commands.Descriptor {
	return commands.Descriptor{
		Name:        "start_tauri_app",
		Description: "launches tauri-driver and opens a session against a Tauri application",
		Label:       "Error starting Tauri app",
		Params: []commands.Param{
			{Name: "application", Type: commands.TypeString, Description: "Path to the Tauri application binary", Required: true},
			{Name: "port", Type: commands.TypeNumber, Description: "Port for tauri-driver (default: 4444)"},
		},
		Handler: b.start,
	}
}

func (b *Bridge) start(ctx context.Context, call commands.Call) (domain.Result, error) {
	var args struct {
		Application string `mapstructure:"application"`
		Port        int    `mapstructure:"port"`
	}
	if err := call.Decode(&args); err != nil {
		return domain.Result{}, err
	}
	if args.Port <= 0 {
		args.Port = b.port
	}

	b.startMu.Lock()
	defer b.startMu.Unlock()

	// Teardown may have run while this call waited for startMu. Past this
	// point the supervisor and the registry refuse new work on their own.
	if b.coordinator.State() != shutdown.Armed {
		return domain.Result{}, domain.ErrShuttingDown
	}

	prev, _ := b.driver.Current()
	handle, err := b.driver.EnsureStarted(ctx, args.Port)
	if err != nil {
		if !errors.Is(err, domain.ErrShuttingDown) {
			b.metrics.ObserveLaunch(err)
		}
		return domain.Result{}, err
	}
	if handle != prev {
		b.metrics.ObserveLaunch(nil)
	}

	client, err := b.dialer.Dial(ctx, ports.DialRequest{
		DriverURL:    handle.URL(),
		Application:  args.Application,
		BrowserName:  b.browserName,
		Capabilities: b.capabilities,
	})
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to connect to Tauri app: %w", err)
	}
	if err := ctx.Err(); err != nil {
		// The caller already gave up; do not leave an orphan session behind.
		_ = client.Quit()
		return domain.Result{}, err
	}

	sess, err := b.registry.Create(ctx, client, session.Meta{
		Application: args.Application,
		DriverURL:   handle.URL(),
	})
	if err != nil {
		_ = client.Quit()
		return domain.Result{}, err
	}
	b.metrics.SetSessions(b.registry.Len())

	return domain.Text("Started tauri-driver and connected to Tauri app at %s with session_id: %s", args.Application, sess.ID), nil
}

func (b *Bridge) closeCommand() commands.Descriptor {
	return commands.Descriptor{
		Name:        "close_session",
		Description: "closes the current Tauri session",
		Label:       "Error closing session",
		Handler: func(ctx context.Context, call commands.Call) (domain.Result, error) {
			id := b.registry.CurrentID()
			err := b.registry.Close(ctx)
			if errors.Is(err, domain.ErrNoActiveSession) {
				return domain.Result{}, err
			}
			b.metrics.SetSessions(b.registry.Len())
			if err != nil {
				return domain.Result{}, err
			}
			return domain.Text("Tauri session %s closed", id), nil
		},
	}
}
