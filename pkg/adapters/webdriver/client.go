package webdriver

import (
	"time"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/ports"
	"github.com/tebeka/selenium"
)

// pollInterval is how often Wait re-evaluates its condition.
const pollInterval = 100 * time.Millisecond

// Client adapts a selenium session to ports.Client.
type Client struct {
	wd    selenium.WebDriver
	proto *protocol
}

func (c *Client) element(we selenium.WebElement) *Element {
	return &Element{we: we, proto: c.proto}
}

func (c *Client) Navigate(url string) error   { return c.wd.Get(url) }
func (c *Client) Back() error                 { return c.wd.Back() }
func (c *Client) Forward() error              { return c.wd.Forward() }
func (c *Client) Refresh() error              { return c.wd.Refresh() }
func (c *Client) CurrentURL() (string, error) { return c.wd.CurrentURL() }
func (c *Client) Title() (string, error)      { return c.wd.Title() }
func (c *Client) PageSource() (string, error) { return c.wd.PageSource() }

func (c *Client) FindElement(loc domain.Locator) (ports.Element, error) {
	we, err := c.wd.FindElement(loc.Using, loc.Value)
	if err != nil {
		return nil, err
	}
	return c.element(we), nil
}

func (c *Client) FindElements(loc domain.Locator) ([]ports.Element, error) {
	wes, err := c.wd.FindElements(loc.Using, loc.Value)
	if err != nil {
		return nil, err
	}
	out := make([]ports.Element, 0, len(wes))
	for _, we := range wes {
		out = append(out, c.element(we))
	}
	return out, nil
}

func (c *Client) ActiveElement() (ports.Element, error) {
	we, err := c.wd.ActiveElement()
	if err != nil {
		return nil, err
	}
	return c.element(we), nil
}

// Wait polls cond with the library's own wait loop.
func (c *Client) Wait(cond ports.Condition, timeout time.Duration) error {
	return c.wd.WaitWithTimeoutAndInterval(func(selenium.WebDriver) (bool, error) {
		return cond(c)
	}, timeout, pollInterval)
}

func (c *Client) ExecuteScript(script string, args []any) (any, error) {
	return c.wd.ExecuteScript(script, scriptArgs(args))
}

func (c *Client) ExecuteScriptAsync(script string, args []any) (any, error) {
	return c.wd.ExecuteScriptAsync(script, scriptArgs(args))
}

// scriptArgs replaces our elements with the library's, which serialise as references.
func scriptArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if el, ok := a.(*Element); ok {
			out[i] = el.we
			continue
		}
		out[i] = a
	}
	return out
}

func (c *Client) WindowHandle() (string, error)    { return c.wd.CurrentWindowHandle() }
func (c *Client) WindowHandles() ([]string, error) { return c.wd.WindowHandles() }
func (c *Client) SwitchWindow(handle string) error { return c.wd.SwitchWindow(handle) }

// CloseWindow closes handle, switching to it first when it is not current.
func (c *Client) CloseWindow(handle string) error {
	current, err := c.wd.CurrentWindowHandle()
	if err != nil {
		return err
	}
	if handle != "" && handle != current {
		if err := c.wd.SwitchWindow(handle); err != nil {
			return err
		}
	}
	return c.wd.Close()
}

func (c *Client) MaximizeWindow(handle string) error { return c.wd.MaximizeWindow(handle) }

func (c *Client) ResizeWindow(handle string, width, height int) error {
	return c.wd.ResizeWindow(handle, width, height)
}

func (c *Client) MinimizeWindow() error {
	return c.proto.post(nil, nil, "/window/minimize")
}

func (c *Client) WindowRect() (domain.Rect, error) {
	var r domain.Rect
	err := c.proto.get(&r, "/window/rect")
	return r, err
}

func (c *Client) MoveWindow(x, y int) error {
	return c.proto.post(map[string]int{"x": x, "y": y}, nil, "/window/rect")
}

func (c *Client) NewWindow(kind string) (string, error) {
	var out struct {
		Handle string `json:"handle"`
	}
	if err := c.proto.post(map[string]string{"type": kind}, &out, "/window/new"); err != nil {
		return "", err
	}
	return out.Handle, nil
}

func (c *Client) SwitchFrame(frame any) error {
	if el, ok := frame.(*Element); ok {
		return c.wd.SwitchFrame(el.we)
	}
	return c.wd.SwitchFrame(frame)
}

func (c *Client) AcceptAlert() error             { return c.wd.AcceptAlert() }
func (c *Client) DismissAlert() error            { return c.wd.DismissAlert() }
func (c *Client) AlertText() (string, error)     { return c.wd.AlertText() }
func (c *Client) SetAlertText(text string) error { return c.wd.SetAlertText(text) }

func (c *Client) pointerAt(el ports.Element, then ...inputAction) error {
	we, err := unwrap(el)
	if err != nil {
		return err
	}
	ref, err := reference(we)
	if err != nil {
		return err
	}
	return c.proto.perform(pointer(append([]inputAction{moveTo(ref)}, then...)...))
}

func (c *Client) Hover(el ports.Element) error {
	return c.pointerAt(el)
}

func (c *Client) DoubleClick(el ports.Element) error {
	return c.pointerAt(el, press(buttonLeft), release(buttonLeft), press(buttonLeft), release(buttonLeft))
}

func (c *Client) ContextClick(el ports.Element) error {
	return c.pointerAt(el, press(buttonRight), release(buttonRight))
}

func (c *Client) ClickAndHold(el ports.Element) error {
	if el == nil {
		return c.proto.perform(pointer(press(buttonLeft)))
	}
	return c.pointerAt(el, press(buttonLeft))
}

func (c *Client) ReleasePointer() error {
	return c.proto.perform(pointer(release(buttonLeft)))
}

func (c *Client) MoveBy(dx, dy int) error {
	return c.proto.perform(pointer(moveBy(dx, dy)))
}

func (c *Client) DragAndDrop(source, target ports.Element) error {
	src, err := unwrap(source)
	if err != nil {
		return err
	}
	dst, err := unwrap(target)
	if err != nil {
		return err
	}
	from, err := reference(src)
	if err != nil {
		return err
	}
	to, err := reference(dst)
	if err != nil {
		return err
	}
	return c.proto.perform(pointer(moveTo(from), press(buttonLeft), moveTo(to), release(buttonLeft)))
}

func (c *Client) KeyDown(key string) error {
	return c.proto.perform(keyboard(keyDown(key)))
}

func (c *Client) KeyUp(key string) error {
	return c.proto.perform(keyboard(keyUp(key)))
}

func (c *Client) SendKeysActive(text string) error {
	if text == "" {
		return nil
	}
	return c.proto.perform(keyboard(typing(text)...))
}

func (c *Client) SetScriptTimeout(d time.Duration) error   { return c.wd.SetAsyncScriptTimeout(d) }
func (c *Client) SetPageLoadTimeout(d time.Duration) error { return c.wd.SetPageLoadTimeout(d) }
func (c *Client) SetImplicitWait(d time.Duration) error    { return c.wd.SetImplicitWaitTimeout(d) }

func (c *Client) SessionID() string           { return c.wd.SessionID() }
func (c *Client) Screenshot() ([]byte, error) { return c.wd.Screenshot() }

func (c *Client) Capabilities() (map[string]any, error) {
	caps, err := c.wd.Capabilities()
	if err != nil {
		return nil, err
	}
	return map[string]any(caps), nil
}

func (c *Client) Quit() error { return c.wd.Quit() }

var _ ports.Client = (*Client)(nil)
