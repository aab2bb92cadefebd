package portstest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/ports"
)

// Client is a fake engine session.
type Client struct {
	mu sync.Mutex

	ID        string
	URL       string
	PageTitle string
	Source    string
	History   []string

	elements map[string][]*Element
	Active   *Element

	Handles []string
	Handle  string
	Frames  []any
	Rect    domain.Rect

	AlertOpen  bool
	AlertMsg   string
	AlertInput string

	// ScriptFunc answers ExecuteScript/ExecuteScriptAsync when set.
	ScriptFunc func(script string, args []any) (any, error)
	Scripts    []string

	Actions []string
	Keys    []string

	ScriptTimeout   time.Duration
	PageLoadTimeout time.Duration
	ImplicitWait    time.Duration

	Caps map[string]any

	// Errs injects a failure for the named method.
	Errs map[string]error
	// PanicOn makes the named method panic.
	PanicOn string
	// Hang blocks every call until it is closed.
	Hang chan struct{}

	QuitErr   error
	QuitCalls int
	calls     []string
}

// NewClient creates a fake session with a single window.
func NewClient(id string) *Client {
	return &Client{
		ID:        id,
		URL:       "tauri://localhost/",
		PageTitle: "Tauri App",
		Source:    "<html><body></body></html>",
		elements:  map[string][]*Element{},
		Handles:   []string{"main"},
		Rect:      domain.Rect{Width: 800, Height: 600},
		Handle:    "main",
		Caps:      map[string]any{"browserName": domain.BrowserName},
		Errs:      map[string]error{},
	}
}

// Add registers elements returned for loc.
func (c *Client) Add(loc domain.Locator, els ...*Element) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elements[key(loc)] = append(c.elements[key(loc)], els...)
	return c
}

// Remove unregisters every element for loc.
func (c *Client) Remove(loc domain.Locator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.elements, key(loc))
}

// Calls returns the names of the methods invoked so far.
func (c *Client) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// Called reports whether method was invoked.
func (c *Client) Called(method string) bool {
	for _, name := range c.Calls() {
		if name == method {
			return true
		}
	}
	return false
}

// enter records the call and applies injected behaviour. It must not be called with c.mu held.
func (c *Client) enter(method string) error {
	c.mu.Lock()
	c.calls = append(c.calls, method)
	hang := c.Hang
	panicOn := c.PanicOn
	err := c.Errs[method]
	c.mu.Unlock()

	if hang != nil {
		<-hang
	}
	if panicOn == method {
		panic(fmt.Sprintf("fake engine panic in %s", method))
	}
	return err
}

func (c *Client) Navigate(url string) error {
	if err := c.enter("Navigate"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.History = append(c.History, c.URL)
	c.URL = url
	return nil
}

func (c *Client) Back() error {
	if err := c.enter("Back"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.History); n > 0 {
		c.URL = c.History[n-1]
		c.History = c.History[:n-1]
	}
	return nil
}

func (c *Client) Forward() error { return c.enter("Forward") }
func (c *Client) Refresh() error { return c.enter("Refresh") }

func (c *Client) CurrentURL() (string, error) {
	if err := c.enter("CurrentURL"); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.URL, nil
}

func (c *Client) Title() (string, error) {
	if err := c.enter("Title"); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.PageTitle, nil
}

func (c *Client) PageSource() (string, error) {
	if err := c.enter("PageSource"); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Source, nil
}

func (c *Client) FindElement(loc domain.Locator) (ports.Element, error) {
	if err := c.enter("FindElement"); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if els := c.elements[key(loc)]; len(els) > 0 {
		return els[0], nil
	}
	return nil, fmt.Errorf("no such element: %s", loc)
}

func (c *Client) FindElements(loc domain.Locator) ([]ports.Element, error) {
	if err := c.enter("FindElements"); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ports.Element, 0, len(c.elements[key(loc)]))
	for _, el := range c.elements[key(loc)] {
		out = append(out, el)
	}
	return out, nil
}

func (c *Client) ActiveElement() (ports.Element, error) {
	if err := c.enter("ActiveElement"); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Active == nil {
		return nil, errors.New("no active element")
	}
	return c.Active, nil
}

// Wait polls cond every 10ms, like the real engine but faster.
func (c *Client) Wait(cond ports.Condition, timeout time.Duration) error {
	if err := c.enter("Wait"); err != nil {
		return err
	}
	deadline := time.Now().Add(timeout)
	for {
		ok, err := cond(c)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout after %v", timeout)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (c *Client) ExecuteScript(script string, args []any) (any, error) {
	return c.script("ExecuteScript", script, args)
}

func (c *Client) ExecuteScriptAsync(script string, args []any) (any, error) {
	return c.script("ExecuteScriptAsync", script, args)
}

func (c *Client) script(method, script string, args []any) (any, error) {
	if err := c.enter(method); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.Scripts = append(c.Scripts, script)
	fn := c.ScriptFunc
	c.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(script, args)
}

// LastScript returns the most recent script body, or "".
func (c *Client) LastScript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Scripts) == 0 {
		return ""
	}
	return c.Scripts[len(c.Scripts)-1]
}

func (c *Client) WindowHandle() (string, error) {
	if err := c.enter("WindowHandle"); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Handle, nil
}

func (c *Client) WindowHandles() ([]string, error) {
	if err := c.enter("WindowHandles"); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.Handles...), nil
}

// OpenWindow simulates a script-opened window.
func (c *Client) OpenWindow(handle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Handles = append(c.Handles, handle)
}

func (c *Client) SwitchWindow(handle string) error {
	if err := c.enter("SwitchWindow"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range c.Handles {
		if h == handle {
			c.Handle = handle
			c.Frames = nil
			return nil
		}
	}
	return fmt.Errorf("no such window: %s", handle)
}

func (c *Client) CloseWindow(handle string) error {
	if err := c.enter("CloseWindow"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, h := range c.Handles {
		if h == handle {
			c.Handles = append(c.Handles[:i], c.Handles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no such window: %s", handle)
}

func (c *Client) MaximizeWindow(handle string) error {
	return c.action("MaximizeWindow", "maximize")
}

func (c *Client) MinimizeWindow() error {
	return c.action("MinimizeWindow", "minimize")
}

func (c *Client) ResizeWindow(handle string, width, height int) error {
	if err := c.action("ResizeWindow", fmt.Sprintf("resize %dx%d", width, height)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Rect.Width, c.Rect.Height = width, height
	return nil
}

func (c *Client) WindowRect() (domain.Rect, error) {
	if err := c.enter("WindowRect"); err != nil {
		return domain.Rect{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Rect, nil
}

func (c *Client) MoveWindow(x, y int) error {
	if err := c.action("MoveWindow", fmt.Sprintf("move window %d,%d", x, y)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Rect.X, c.Rect.Y = x, y
	return nil
}

func (c *Client) NewWindow(kind string) (string, error) {
	if err := c.enter("NewWindow"); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	handle := fmt.Sprintf("%s-%d", kind, len(c.Handles)+1)
	c.Handles = append(c.Handles, handle)
	return handle, nil
}

func (c *Client) SwitchFrame(frame any) error {
	if err := c.enter("SwitchFrame"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if frame == nil {
		c.Frames = nil
		return nil
	}
	c.Frames = append(c.Frames, frame)
	return nil
}

// FramePath returns the frames entered since the last top-level switch.
func (c *Client) FramePath() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.Frames...)
}

// ShowAlert opens a user prompt.
func (c *Client) ShowAlert(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.AlertOpen = true
	c.AlertMsg = msg
}

func (c *Client) AcceptAlert() error  { return c.closeAlert("AcceptAlert") }
func (c *Client) DismissAlert() error { return c.closeAlert("DismissAlert") }

func (c *Client) closeAlert(method string) error {
	if err := c.enter(method); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.AlertOpen {
		return errors.New("no such alert")
	}
	c.AlertOpen = false
	return nil
}

func (c *Client) AlertText() (string, error) {
	if err := c.enter("AlertText"); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.AlertOpen {
		return "", errors.New("no such alert")
	}
	return c.AlertMsg, nil
}

func (c *Client) SetAlertText(text string) error {
	if err := c.enter("SetAlertText"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.AlertOpen {
		return errors.New("no such alert")
	}
	c.AlertInput = text
	return nil
}

func (c *Client) action(method, desc string) error {
	if err := c.enter(method); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Actions = append(c.Actions, desc)
	return nil
}

func (c *Client) Hover(el ports.Element) error       { return c.action("Hover", "hover "+name(el)) }
func (c *Client) DoubleClick(el ports.Element) error { return c.action("DoubleClick", "double-click "+name(el)) }
func (c *Client) ContextClick(el ports.Element) error {
	return c.action("ContextClick", "context-click "+name(el))
}
func (c *Client) ClickAndHold(el ports.Element) error {
	return c.action("ClickAndHold", "press "+name(el))
}
func (c *Client) ReleasePointer() error { return c.action("ReleasePointer", "release") }
func (c *Client) MoveBy(dx, dy int) error {
	return c.action("MoveBy", fmt.Sprintf("move %d,%d", dx, dy))
}
func (c *Client) DragAndDrop(source, target ports.Element) error {
	return c.action("DragAndDrop", "drag "+name(source)+" to "+name(target))
}

func (c *Client) KeyDown(key string) error { return c.key("KeyDown", "down "+key) }
func (c *Client) KeyUp(key string) error   { return c.key("KeyUp", "up "+key) }
func (c *Client) SendKeysActive(text string) error {
	return c.key("SendKeysActive", "type "+text)
}

func (c *Client) key(method, desc string) error {
	if err := c.enter(method); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Keys = append(c.Keys, desc)
	return nil
}

func (c *Client) SetScriptTimeout(d time.Duration) error {
	if err := c.enter("SetScriptTimeout"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ScriptTimeout = d
	return nil
}

func (c *Client) SetPageLoadTimeout(d time.Duration) error {
	if err := c.enter("SetPageLoadTimeout"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PageLoadTimeout = d
	return nil
}

func (c *Client) SetImplicitWait(d time.Duration) error {
	if err := c.enter("SetImplicitWait"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ImplicitWait = d
	return nil
}

func (c *Client) SessionID() string { return c.ID }

func (c *Client) Screenshot() ([]byte, error) {
	if err := c.enter("Screenshot"); err != nil {
		return nil, err
	}
	return PNG, nil
}

func (c *Client) Capabilities() (map[string]any, error) {
	if err := c.enter("Capabilities"); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Caps, nil
}

func (c *Client) Quit() error {
	c.mu.Lock()
	c.QuitCalls++
	err := c.QuitErr
	hang := c.Hang
	c.mu.Unlock()

	if hang != nil {
		<-hang
	}
	return err
}

// Quits returns how many times Quit was called.
func (c *Client) Quits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.QuitCalls
}

// Snapshot returns recorded actions and keys.
func (c *Client) Snapshot() (actions, keys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.Actions...), append([]string(nil), c.Keys...)
}

func name(el ports.Element) string {
	if fe, ok := el.(*Element); ok && fe != nil {
		return fe.Name
	}
	return "pointer"
}

// Dialer hands out fake clients.
type Dialer struct {
	mu       sync.Mutex
	Err      error
	Requests []ports.DialRequest
	// Prepare customises every new client.
	Prepare func(*Client)
	clients  []*Client
}

func (d *Dialer) Dial(ctx context.Context, req ports.DialRequest) (ports.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Requests = append(d.Requests, req)
	if d.Err != nil {
		return nil, d.Err
	}
	c := NewClient(fmt.Sprintf("fake-%d", len(d.clients)+1))
	if d.Prepare != nil {
		d.Prepare(c)
	}
	d.clients = append(d.clients, c)
	return c, nil
}

// Clients returns every client handed out so far.
func (d *Dialer) Clients() []*Client {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Client(nil), d.clients...)
}

var (
	_ ports.Client = (*Client)(nil)
	_ ports.Dialer = (*Dialer)(nil)
)
