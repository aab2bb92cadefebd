package domain

import "errors"

// ErrNoActiveSession is returned when a session-scoped command runs before "start" or after "close".
var ErrNoActiveSession = errors.New("no active session")

// ErrUnsupportedStrategy is returned when a locator strategy is outside the supported set.
var ErrUnsupportedStrategy = errors.New("unsupported locator strategy")

// ErrLaunchFailed is returned when the driver process cannot be spawned or never becomes reachable.
var ErrLaunchFailed = errors.New("driver launch failed")

// ErrDriverNotRunning is returned when an operation requires a tracked driver process.
var ErrDriverNotRunning = errors.New("driver not running")

// ErrRecordNotFound is returned by record stores when a record does not exist.
var ErrRecordNotFound = errors.New("record not found")

// ErrCommandTimeout is returned when a delegated call outlives the command deadline.
var ErrCommandTimeout = errors.New("command timed out")

// ErrUnknownCommand is returned when a command name is not present in the catalogue.
var ErrUnknownCommand = errors.New("unknown command")

// ErrShuttingDown is returned for commands that arrive after teardown started.
var ErrShuttingDown = errors.New("server is shutting down")
