package shutdown_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/tauribridge/pkg/shutdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	calls    atomic.Int32
	failures map[string]error
	delay    time.Duration
}

func (f *fakeSessions) CloseAll(ctx context.Context) map[string]error {
	f.calls.Add(1)
	time.Sleep(f.delay)
	return f.failures
}

type fakeDriver struct {
	calls atomic.Int32
	err   error
}

func (f *fakeDriver) Terminate(ctx context.Context) error {
	f.calls.Add(1)
	return f.err
}

type exitRecorder struct {
	mu    sync.Mutex
	codes []int
}

func (e *exitRecorder) exit(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.codes = append(e.codes, code)
}

func (e *exitRecorder) get() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.codes...)
}

func waitDone(t *testing.T, c *shutdown.Coordinator) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("teardown did not complete")
	}
}

func TestCoordinator_TeardownRunsOnceUnderConcurrentTriggers(t *testing.T) {
	sessions := &fakeSessions{delay: 50 * time.Millisecond}
	driver := &fakeDriver{}
	exits := &exitRecorder{}
	c := shutdown.New(sessions, driver, shutdown.WithExit(exits.exit))

	causes := []shutdown.Cause{
		shutdown.CauseInterrupt,
		shutdown.CauseTerminate,
		shutdown.CauseStreamClosed,
		shutdown.CauseExplicit,
		shutdown.CauseFault,
		shutdown.CauseAsyncError,
	}

	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(cause shutdown.Cause) {
			defer wg.Done()
			if c.Trigger(cause, nil) {
				winners.Add(1)
			}
		}(causes[i%len(causes)])
	}
	wg.Wait()
	waitDone(t, c)

	assert.Equal(t, int32(1), winners.Load())
	assert.Equal(t, int32(1), sessions.calls.Load())
	assert.Equal(t, int32(1), driver.calls.Load())
	assert.Equal(t, []int{0}, exits.get())
	assert.Equal(t, shutdown.ShuttingDown, c.State())
}

func TestCoordinator_ReportCollectsFailures(t *testing.T) {
	sessions := &fakeSessions{failures: map[string]error{
		"tauri_b": errors.New("connection reset"),
		"tauri_a": errors.New("invalid session id"),
	}}
	driver := &fakeDriver{err: errors.New("kill: operation not permitted")}
	exits := &exitRecorder{}

	c := shutdown.New(sessions, driver,
		shutdown.WithExit(exits.exit),
		shutdown.WithHook("flush traces", func(ctx context.Context) error { return errors.New("exporter closed") }),
		shutdown.WithHook("panicky", func(ctx context.Context) error { panic("boom") }),
	)

	assert.True(t, c.Trigger(shutdown.CauseExplicit, nil))
	report := c.Report()

	require.Len(t, report.Errors, 5)
	assert.Equal(t, shutdown.KindSessionQuit, report.Errors[0].Kind)
	assert.Equal(t, "tauri_a", report.Errors[0].Target)
	assert.Equal(t, "tauri_b", report.Errors[1].Target)
	assert.Equal(t, shutdown.KindDriverTerminate, report.Errors[2].Kind)
	assert.Equal(t, shutdown.KindHook, report.Errors[3].Kind)
	assert.Equal(t, "flush traces", report.Errors[3].Target)
	assert.ErrorContains(t, report.Errors[4], "panic: boom")
	assert.False(t, report.Clean())
	assert.Contains(t, report.String(), "driver_terminate tauri-driver")

	// Teardown failures never change the exit status.
	assert.Equal(t, []int{0}, exits.get())
}

func TestCoordinator_LateTriggerIsNoop(t *testing.T) {
	sessions := &fakeSessions{}
	c := shutdown.New(sessions, nil, shutdown.WithExit(nil))

	assert.True(t, c.Trigger(shutdown.CauseStreamClosed, nil))
	assert.False(t, c.Trigger(shutdown.CauseInterrupt, nil))

	report := c.Report()
	assert.Equal(t, shutdown.CauseStreamClosed, report.Cause)
	assert.True(t, report.Clean())
	assert.Equal(t, int32(1), sessions.calls.Load())
}

func TestCoordinator_GoPanicTriggersFault(t *testing.T) {
	c := shutdown.New(&fakeSessions{}, &fakeDriver{}, shutdown.WithExit(nil))

	c.Go("transport", func() error {
		panic("nil pointer somewhere")
	})
	waitDone(t, c)

	report := c.Report()
	assert.Equal(t, shutdown.CauseFault, report.Cause)
	assert.ErrorContains(t, report.Err, "transport: panic: nil pointer somewhere")
}

func TestCoordinator_GoErrorTriggersAsyncError(t *testing.T) {
	c := shutdown.New(&fakeSessions{}, &fakeDriver{}, shutdown.WithExit(nil))

	c.Go("metrics server", func() error {
		return errors.New("address already in use")
	})
	waitDone(t, c)

	report := c.Report()
	assert.Equal(t, shutdown.CauseAsyncError, report.Cause)
	assert.ErrorContains(t, report.Err, "metrics server: address already in use")
}

func TestCoordinator_GoNilErrorDoesNotTrigger(t *testing.T) {
	c := shutdown.New(&fakeSessions{}, &fakeDriver{}, shutdown.WithExit(nil))

	finished := make(chan struct{})
	c.Go("worker", func() error {
		defer close(finished)
		return nil
	})
	<-finished

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, shutdown.Armed, c.State())
}

func TestCoordinator_RecoverInCaller(t *testing.T) {
	c := shutdown.New(nil, nil, shutdown.WithExit(nil))

	func() {
		defer c.Recover("main")
		panic("unexpected")
	}()

	assert.Equal(t, shutdown.CauseFault, c.Report().Cause)
}

func TestCoordinator_AddHookRuns(t *testing.T) {
	c := shutdown.New(nil, nil, shutdown.WithExit(nil))
	var ran atomic.Bool
	c.AddHook("close listener", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	c.Trigger(shutdown.CauseExplicit, nil)
	assert.True(t, ran.Load())
}

// MockDriver records the order teardown reaches the driver.
type MockDriver struct {
	mock.Mock
}

func (m *MockDriver) Terminate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestCoordinator_DriverStopsAfterSessionsAndBeforeHooks(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	record := func(step string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, step)
	}

	sessions := &orderedSessions{record: record}
	driver := &MockDriver{}
	driver.On("Terminate", mock.Anything).Run(func(mock.Arguments) { record("driver") }).Return(errors.New("already gone")).Once()

	c := shutdown.New(sessions, driver,
		shutdown.WithExit(nil),
		shutdown.WithHook("flush", func(ctx context.Context) error {
			record("hook")
			return nil
		}),
	)

	require.True(t, c.Trigger(shutdown.CauseStreamClosed, nil))
	waitDone(t, c)

	driver.AssertExpectations(t)
	assert.Equal(t, []string{"sessions", "driver", "hook"}, order)

	report := c.Report()
	require.Len(t, report.Errors, 1)
	assert.Equal(t, shutdown.KindDriverTerminate, report.Errors[0].Kind)
}

type orderedSessions struct {
	record func(string)
}

func (s *orderedSessions) CloseAll(ctx context.Context) map[string]error {
	s.record("sessions")
	return nil
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "armed", shutdown.Armed.String())
	assert.Equal(t, "shutting_down", shutdown.ShuttingDown.String())
}
