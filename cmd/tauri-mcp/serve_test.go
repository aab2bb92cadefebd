package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/tauribridge/pkg/shutdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockUntilDone is a server that only stops when asked to.
func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func serveWithin(t *testing.T, coord *shutdown.Coordinator, transport func(context.Context) error, servers ...func(context.Context) error) shutdown.Report {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		serveUntilShutdown(context.Background(), coord, transport, servers...)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after teardown")
	}
	return coord.Report()
}

func TestServeUntilShutdown(t *testing.T) {
	t.Run("Input Stream Closed", func(t *testing.T) {
		coord := shutdown.New(nil, nil, shutdown.WithExit(nil))
		stdinEOF := func(context.Context) error { return nil }

		report := serveWithin(t, coord, stdinEOF, blockUntilDone)
		assert.Equal(t, shutdown.CauseStreamClosed, report.Cause)
		assert.NoError(t, report.Err)
	})

	t.Run("Server Fails", func(t *testing.T) {
		coord := shutdown.New(nil, nil, shutdown.WithExit(nil))
		boom := errors.New("listen tcp :9090: address already in use")
		failing := func(context.Context) error { return boom }

		report := serveWithin(t, coord, blockUntilDone, failing)
		assert.Equal(t, shutdown.CauseAsyncError, report.Cause)
		assert.ErrorIs(t, report.Err, boom)
	})

	t.Run("Transport Fails", func(t *testing.T) {
		coord := shutdown.New(nil, nil, shutdown.WithExit(nil))
		boom := errors.New("write /dev/stdout: broken pipe")

		report := serveWithin(t, coord, func(context.Context) error { return boom })
		assert.Equal(t, shutdown.CauseAsyncError, report.Cause)
		assert.ErrorIs(t, report.Err, boom)
	})

	t.Run("Transport Panics", func(t *testing.T) {
		coord := shutdown.New(nil, nil, shutdown.WithExit(nil))
		panicking := func(context.Context) error { panic("nil map write") }

		report := serveWithin(t, coord, panicking, blockUntilDone)
		assert.Equal(t, shutdown.CauseFault, report.Cause)
		assert.ErrorContains(t, report.Err, "transport: panic: nil map write")
	})

	t.Run("Signal Stops Every Server", func(t *testing.T) {
		coord := shutdown.New(nil, nil, shutdown.WithExit(nil))
		go func() {
			time.Sleep(50 * time.Millisecond)
			coord.Trigger(shutdown.CauseInterrupt, nil)
		}()

		report := serveWithin(t, coord, blockUntilDone, blockUntilDone)
		require.Equal(t, shutdown.CauseInterrupt, report.Cause)
		assert.Equal(t, shutdown.ShuttingDown, coord.State())
	})
}
