package shutdown

import (
	"fmt"
	"strings"
	"time"
)

// Cause identifies what started the shutdown.
type Cause string

const (
	CauseInterrupt    Cause = "interrupt"
	CauseTerminate    Cause = "terminate"
	CauseFault        Cause = "fault"
	CauseAsyncError   Cause = "async_error"
	CauseStreamClosed Cause = "stream_closed"
	CauseExplicit     Cause = "explicit"
)

// Kind classifies a teardown step that failed.
type Kind string

const (
	KindSessionQuit     Kind = "session_quit"
	KindDriverTerminate Kind = "driver_terminate"
	KindHook            Kind = "hook"
)

// TeardownError is one non-fatal failure collected during teardown.
type TeardownError struct {
	Kind   Kind
	Target string
	Err    error
}

func (e TeardownError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Target, e.Err)
}

func (e TeardownError) Unwrap() error {
	return e.Err
}

// Report summarises a completed teardown.
type Report struct {
	Cause    Cause
	Err      error
	Errors   []TeardownError
	Duration time.Duration
}

// Clean reports whether every teardown step succeeded.
func (r Report) Clean() bool {
	return len(r.Errors) == 0
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "shutdown (%s) in %s", r.Cause, r.Duration.Round(time.Millisecond))
	if r.Err != nil {
		fmt.Fprintf(&b, " after: %v", r.Err)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "\n  - %s", e.Error())
	}
	return b.String()
}
