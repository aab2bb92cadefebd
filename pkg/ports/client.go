package ports

import (
	"context"
	"time"

	"github.com/aretw0/tauribridge/pkg/domain"
)

// Condition is evaluated repeatedly by Client.Wait until it reports true,
// returns an error, or the timeout elapses.
type Condition func(c Client) (bool, error)

// Element is a handle to a UI element inside the automated application.
type Element interface {
	Click() error
	Clear() error
	SendKeys(text string) error
	Submit() error

	Text() (string, error)
	TagName() (string, error)
	Attribute(name string) (string, error)
	CSSValue(name string) (string, error)

	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	IsSelected() (bool, error)

	// Property reads a DOM property (as opposed to an HTML attribute).
	Property(name string) (any, error)

	Location() (domain.Point, error)
	Size() (domain.Size, error)

	FindElement(loc domain.Locator) (Element, error)
	Screenshot() ([]byte, error)
}

// Navigator covers page-level navigation and inspection.
type Navigator interface {
	Navigate(url string) error
	Back() error
	Forward() error
	Refresh() error
	CurrentURL() (string, error)
	Title() (string, error)
	PageSource() (string, error)
}

// Finder covers element lookup, including the engine's native polling primitive.
type Finder interface {
	FindElement(loc domain.Locator) (Element, error)
	FindElements(loc domain.Locator) ([]Element, error)
	ActiveElement() (Element, error)
	Wait(cond Condition, timeout time.Duration) error
}

// Scripter evaluates JavaScript in the current browsing context.
// Element values are accepted in args and passed as element references.
type Scripter interface {
	ExecuteScript(script string, args []any) (any, error)
	ExecuteScriptAsync(script string, args []any) (any, error)
}

// WindowManager covers windows, frames and alerts.
type WindowManager interface {
	WindowHandle() (string, error)
	WindowHandles() ([]string, error)
	SwitchWindow(handle string) error
	CloseWindow(handle string) error
	MaximizeWindow(handle string) error
	MinimizeWindow() error
	ResizeWindow(handle string, width, height int) error
	WindowRect() (domain.Rect, error)
	MoveWindow(x, y int) error
	// NewWindow opens a "tab" or "window" and returns its handle without switching to it.
	NewWindow(kind string) (string, error)

	// SwitchFrame enters a frame. A nil frame selects the top-level context;
	// an int selects by index; an Element selects that frame element.
	SwitchFrame(frame any) error

	AcceptAlert() error
	DismissAlert() error
	AlertText() (string, error)
	SetAlertText(text string) error
}

// Actor synthesises pointer and keyboard input sequences.
type Actor interface {
	Hover(el Element) error
	DragAndDrop(source, target Element) error
	DoubleClick(el Element) error
	ContextClick(el Element) error
	// ClickAndHold presses the left button, over el when it is non-nil.
	ClickAndHold(el Element) error
	ReleasePointer() error
	MoveBy(dx, dy int) error
	KeyDown(key string) error
	KeyUp(key string) error
	SendKeysActive(text string) error
}

// TimeoutManager configures the session timeouts.
type TimeoutManager interface {
	SetScriptTimeout(d time.Duration) error
	SetPageLoadTimeout(d time.Duration) error
	SetImplicitWait(d time.Duration) error
}

// Client is a single remote automation session exposed by the delegated engine.
// Calls block until the driver answers and cannot be cancelled from the outside.
type Client interface {
	Navigator
	Finder
	Scripter
	WindowManager
	Actor
	TimeoutManager

	SessionID() string
	Screenshot() ([]byte, error)
	Capabilities() (map[string]any, error)

	// Quit ends the remote session.
	Quit() error
}

// DialRequest describes the session to open against a running driver.
type DialRequest struct {
	DriverURL    string
	Application  string
	BrowserName  string
	Capabilities map[string]any
}

// Dialer opens new engine sessions.
type Dialer interface {
	Dial(ctx context.Context, req DialRequest) (Client, error)
}
