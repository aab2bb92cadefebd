package domain

import "time"

const (
	// DefaultDriverPort is the port tauri-driver listens on when the caller does not pick one.
	DefaultDriverPort = 4444

	// DefaultWaitTimeout bounds explicit element waits when the caller does not specify one.
	DefaultWaitTimeout = 10000 * time.Millisecond

	// SessionIDPrefix is prepended to every generated session id.
	SessionIDPrefix = "tauri_"

	// BrowserName is the WebDriver browserName tauri-driver expects.
	BrowserName = "wry"

	// CapabilityTauriOptions is the vendor capability carrying the application path.
	CapabilityTauriOptions = "tauri:options"
)
