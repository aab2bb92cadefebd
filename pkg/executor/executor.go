// Package executor runs delegated engine calls under a uniform timeout and failure contract.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tauribridge/internal/logging"
	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/observability"
	"go.opentelemetry.io/otel/trace"
)

// DefaultCommandGrace is added to the wait timeout to form the overall deadline.
const DefaultCommandGrace = 30 * time.Second

// RunFunc performs the delegated work. wait is the resolved element-wait timeout.
type RunFunc func(ctx context.Context, wait time.Duration) (domain.Result, error)

// Action is one command execution.
type Action struct {
	// Label prefixes failure messages ("<Label>: <cause>").
	Label string
	// Command names the catalogue entry, for metrics. Defaults to Label.
	Command string
	// SessionID is attached to the span when set.
	SessionID string
	// Timeout is the element-wait timeout; zero means the executor default.
	Timeout time.Duration
	Run     RunFunc
}

// Executor applies timeouts, recovers panics and converts every failure into a Result.
type Executor struct {
	defaultWait time.Duration
	grace       time.Duration
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// Option configures the Executor.
type Option func(*Executor)

// WithDefaultWait sets the wait timeout used when an action has none.
func WithDefaultWait(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.defaultWait = d
		}
	}
}

// WithCommandGrace sets the slack between the wait timeout and the hard deadline.
func WithCommandGrace(d time.Duration) Option {
	return func(e *Executor) {
		if d >= 0 {
			e.grace = d
		}
	}
}

// WithMetrics records every execution.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// WithLogger configures a logger for the Executor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		defaultWait: domain.DefaultWaitTimeout,
		grace:       DefaultCommandGrace,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WaitTimeout resolves a caller-supplied timeout in milliseconds.
func (e *Executor) WaitTimeout(ms int) time.Duration {
	if ms <= 0 {
		return e.defaultWait
	}
	return time.Duration(ms) * time.Millisecond
}

type outcome struct {
	res      domain.Result
	err      error
	panicked bool
}

// Execute runs a. It never panics and never returns a Go error; failures come
// back as a Result with IsError set. Engine calls cannot be cancelled, so a
// call that outlives the deadline is abandoned and reported as a timeout.
func (e *Executor) Execute(ctx context.Context, a Action) domain.Result {
	command := a.Command
	if command == "" {
		command = a.Label
	}
	wait := a.Timeout
	if wait <= 0 {
		wait = e.defaultWait
	}
	deadline := wait + e.grace

	ctx, span := observability.StartSpan(ctx, "command "+command, trace.WithAttributes(
		observability.AttrCommand.String(command),
		observability.AttrSessionID.String(a.SessionID),
	))
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("internal error: %v", r), panicked: true}
			}
		}()
		res, err := a.Run(runCtx, wait)
		done <- outcome{res: res, err: err}
	}()

	var o outcome
	select {
	case o = <-done:
	case <-runCtx.Done():
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			o.err = fmt.Errorf("%w after %s", domain.ErrCommandTimeout, deadline)
		} else {
			o.err = ctx.Err()
		}
	}

	result, status := e.settle(a.Label, o)
	elapsed := time.Since(start)

	e.metrics.ObserveCommand(command, status, elapsed)
	span.SetAttributes(observability.AttrOutcome.String(status))
	if result.IsError {
		observability.EndSpan(span, errors.New(result.Message))
		e.logger.Warn("command failed", "command", command, "session_id", a.SessionID,
			"outcome", status, "duration", elapsed, "err", result.Message)
	} else {
		observability.EndSpan(span, nil)
		e.logger.Debug("command completed", "command", command, "session_id", a.SessionID, "duration", elapsed)
	}
	return result
}

func (e *Executor) settle(label string, o outcome) (domain.Result, string) {
	switch {
	case o.panicked:
		return domain.Failure(label, o.err), observability.OutcomePanic
	case errors.Is(o.err, domain.ErrCommandTimeout):
		return domain.Failure(label, o.err), observability.OutcomeTimeout
	case o.err != nil:
		return domain.Failure(label, o.err), observability.OutcomeError
	case o.res.IsError:
		if o.res.Message == "" {
			o.res.Message = label + ": unknown error"
		}
		return o.res, observability.OutcomeError
	default:
		return o.res, observability.OutcomeOK
	}
}
