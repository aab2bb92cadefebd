package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/tauribridge/pkg/commands"
	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/locator"
	"github.com/aretw0/tauribridge/pkg/ports/portstest"
	"github.com/aretw0/tauribridge/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	cat    *commands.Catalogue
	client *portstest.Client
	sess   *session.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := portstest.NewClient("remote-1")
	sess, err := session.NewRegistry().Create(context.Background(), client, session.Meta{Application: "/apps/demo"})
	require.NoError(t, err)
	return &fixture{cat: commands.Default(), client: client, sess: sess}
}

func (f *fixture) call(args map[string]any) commands.Call {
	return commands.Call{Session: f.sess, Client: f.client, Wait: 200 * time.Millisecond, Args: args}
}

func (f *fixture) run(t *testing.T, name string, args map[string]any) (domain.Result, error) {
	t.Helper()
	d, err := f.cat.Lookup(name)
	require.NoError(t, err)
	require.NoError(t, d.Validate(args))
	return d.Handler(context.Background(), f.call(args))
}

func (f *fixture) ok(t *testing.T, name string, args map[string]any) string {
	t.Helper()
	res, err := f.run(t, name, args)
	require.NoError(t, err)
	return res.Text
}

func (f *fixture) add(by, value string, el *portstest.Element) *portstest.Element {
	f.client.Add(locator.MustResolve(by, value), el)
	return el
}

func at(by, value string) map[string]any {
	return map[string]any{"by": by, "value": value}
}

func with(args map[string]any, kv ...any) map[string]any {
	for i := 0; i+1 < len(kv); i += 2 {
		args[kv[i].(string)] = kv[i+1]
	}
	return args
}

func TestNavigation(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Navigated to tauri://localhost/settings", f.ok(t, "navigate", map[string]any{"url": "tauri://localhost/settings"}))
	assert.Equal(t, "Current URL: tauri://localhost/settings", f.ok(t, "get_current_url", nil))
	assert.Equal(t, "Navigated back", f.ok(t, "go_back", nil))
	assert.Equal(t, "Current URL: tauri://localhost/", f.ok(t, "get_current_url", nil))
	assert.Equal(t, "Navigated forward", f.ok(t, "go_forward", nil))
	assert.Equal(t, "Page refreshed", f.ok(t, "refresh_page", nil))
	assert.Equal(t, "Page title: Tauri App", f.ok(t, "get_title", nil))
	assert.Equal(t, "<html><body></body></html>", f.ok(t, "get_page_source", nil))
}

func TestEngineErrorsAreReturned(t *testing.T) {
	f := newFixture(t)
	f.client.Errs["Navigate"] = errors.New("invalid argument")

	_, err := f.run(t, "navigate", map[string]any{"url": "::"})
	assert.EqualError(t, err, "invalid argument")
}

func TestElementInteraction(t *testing.T) {
	f := newFixture(t)
	input := f.add("id", "name", portstest.NewElement("name", "input", ""))
	input.Attrs["value"] = ""

	assert.Equal(t, "Element found", f.ok(t, "find_element", at("id", "name")))
	assert.Equal(t, "Element clicked", f.ok(t, "click_element", at("id", "name")))
	assert.Equal(t, `Text "Ada" entered into element`, f.ok(t, "send_keys", with(at("id", "name"), "text", "Ada")))
	assert.Equal(t, `Text "Grace" entered into element`, f.ok(t, "send_keys", with(at("id", "name"), "text", "Grace")))

	typed, clicks, _ := input.Snapshot()
	assert.Equal(t, "Grace", typed, "send_keys clears the field first")
	assert.Equal(t, 1, clicks)

	assert.Equal(t, "Element submitted", f.ok(t, "submit_element", at("id", "name")))
	assert.Equal(t, "File upload initiated", f.ok(t, "upload_file", with(at("id", "name"), "filePath", "/tmp/a.txt")))
	typed, _, submits := input.Snapshot()
	assert.Equal(t, "Grace/tmp/a.txt", typed)
	assert.Equal(t, 1, submits)
}

func TestElementNotFound(t *testing.T) {
	f := newFixture(t)

	start := time.Now()
	_, err := f.run(t, "click_element", at("css", ".missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "css=.missing")
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond, "lookups wait for the element")
}

func TestElementAppearsWhileWaiting(t *testing.T) {
	f := newFixture(t)
	go func() {
		time.Sleep(50 * time.Millisecond)
		f.add("id", "late", portstest.NewElement("late", "div", "hello"))
	}()

	assert.Equal(t, "hello", f.ok(t, "get_element_text", at("id", "late")))
}

func TestUnsupportedStrategy(t *testing.T) {
	f := newFixture(t)
	d, err := f.cat.Lookup("find_element")
	require.NoError(t, err)

	_, err = d.Handler(context.Background(), f.call(at("shadow", "x")))
	assert.ErrorIs(t, err, domain.ErrUnsupportedStrategy)
	assert.Empty(t, f.client.Calls(), "no engine call for a bad strategy")
}

func TestElementProperties(t *testing.T) {
	f := newFixture(t)
	el := f.add("class", "card", portstest.NewElement("card", "section", "Card"))
	el.Attrs["data-id"] = "42"
	el.CSS["color"] = "rgb(0, 0, 0)"
	el.Loc = domain.Point{X: 10, Y: 20}
	el.Dim = domain.Size{Width: 300, Height: 150}
	f.add("css", "section", portstest.NewElement("a", "section", ""))
	f.add("css", "section", portstest.NewElement("b", "section", ""))

	assert.Equal(t, "Attribute 'data-id': 42", f.ok(t, "get_element_attribute", with(at("class", "card"), "attribute", "data-id")))
	assert.Equal(t, "Property 'tagName': section", f.ok(t, "get_element_property", with(at("class", "card"), "property", "tagName")))
	assert.Equal(t, "Property 'checked': false", f.ok(t, "get_element_property", with(at("class", "card"), "property", "checked")))
	assert.Equal(t, "Property 'missing': null", f.ok(t, "get_element_property", with(at("class", "card"), "property", "missing")))
	assert.Equal(t, "CSS property 'color': rgb(0, 0, 0)", f.ok(t, "get_element_css_value", with(at("class", "card"), "cssProperty", "color")))
	assert.Equal(t, "Element is displayed: true", f.ok(t, "is_element_displayed", at("class", "card")))
	assert.Equal(t, "Element is enabled: true", f.ok(t, "is_element_enabled", at("class", "card")))
	assert.Equal(t, "Element is selected: false", f.ok(t, "is_element_selected", at("class", "card")))
	assert.Equal(t, "Element tag name: section", f.ok(t, "get_element_tag_name", at("class", "card")))
	assert.Equal(t, "Element size: width=300, height=150", f.ok(t, "get_element_size", at("class", "card")))
	assert.Equal(t, "Element location: x=10, y=20", f.ok(t, "get_element_location", at("class", "card")))
	assert.Equal(t, "Element rect: x=10, y=20, width=300, height=150", f.ok(t, "get_element_rect", at("class", "card")))
	assert.Equal(t, "Found 2 elements", f.ok(t, "find_elements", at("css", "section")))
	assert.Equal(t, "Found 0 elements", f.ok(t, "find_elements", at("css", "article")))
}

func TestActions(t *testing.T) {
	f := newFixture(t)
	f.add("id", "src", portstest.NewElement("src", "div", ""))
	f.add("id", "dst", portstest.NewElement("dst", "div", ""))

	assert.Equal(t, "Hovered over element", f.ok(t, "hover", at("id", "src")))
	assert.Equal(t, "Double click performed", f.ok(t, "double_click", at("id", "src")))
	assert.Equal(t, "Right click performed", f.ok(t, "right_click", at("id", "src")))
	assert.Equal(t, "Drag and drop completed", f.ok(t, "drag_and_drop", with(at("id", "src"), "targetBy", "id", "targetValue", "dst")))
	assert.Equal(t, "Mouse button held down on element", f.ok(t, "click_and_hold", at("id", "src")))
	assert.Equal(t, "Mouse moved by offset x=5, y=-3", f.ok(t, "move_by_offset", map[string]any{"x": float64(5), "y": float64(-3)}))
	assert.Equal(t, "Mouse button released", f.ok(t, "release", nil))

	actions, _ := f.client.Snapshot()
	assert.Equal(t, []string{
		"hover src", "double-click src", "context-click src", "drag src to dst",
		"press src", "move 5,-3", "release",
	}, actions)
}

func TestDragAndDropMissingTarget(t *testing.T) {
	f := newFixture(t)
	f.add("id", "src", portstest.NewElement("src", "div", ""))

	_, err := f.run(t, "drag_and_drop", with(at("id", "src"), "targetBy", "id", "targetValue", "nowhere"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id=nowhere")
	assert.False(t, f.client.Called("DragAndDrop"))
}

func TestKeyboard(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Key 'Enter' pressed", f.ok(t, "press_key", map[string]any{"key": "Enter"}))
	assert.Equal(t, "Key down: Shift", f.ok(t, "key_down", map[string]any{"key": "Shift"}))
	assert.Equal(t, "Key up: Shift", f.ok(t, "key_up", map[string]any{"key": "Shift"}))
	assert.Equal(t, "Sent keys to active element: hi", f.ok(t, "send_keys_active", map[string]any{"text": "hi"}))

	_, keys := f.client.Snapshot()
	assert.Equal(t, []string{
		"down " + commands.KeyCode("Enter"), "up " + commands.KeyCode("Enter"),
		"down " + commands.KeyCode("Shift"), "up " + commands.KeyCode("Shift"),
		"type hi",
	}, keys)
}

func TestWindows(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Current window handle: main", f.ok(t, "get_window_handle", nil))
	assert.Equal(t, "New tab opened with handle: tab-2", f.ok(t, "new_window", nil))
	assert.Equal(t, "Current window handle: tab-2", f.ok(t, "get_window_handle", nil))
	assert.Equal(t, "New window opened with handle: window-3", f.ok(t, "new_window", map[string]any{"type": "window"}))
	assert.Equal(t, "All window handles: main, tab-2, window-3", f.ok(t, "get_all_window_handles", nil))
	assert.Equal(t, "Current window closed", f.ok(t, "close_window", nil))
	assert.Equal(t, "All window handles: main, tab-2", f.ok(t, "get_all_window_handles", nil))
	assert.Equal(t, "Switched to window: main", f.ok(t, "switch_to_window", map[string]any{"handle": "main"}))

	_, err := f.run(t, "switch_to_window", map[string]any{"handle": "gone"})
	assert.ErrorContains(t, err, "no such window")

	_, err = f.run(t, "new_window", map[string]any{"type": "popup"})
	assert.ErrorContains(t, err, "unsupported window type")
}

func TestWindowGeometry(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Window maximized", f.ok(t, "maximize_window", nil))
	assert.Equal(t, "Window minimized", f.ok(t, "minimize_window", nil))
	assert.Equal(t, "Window size set to 1024x768", f.ok(t, "set_window_size", map[string]any{"width": float64(1024), "height": float64(768)}))
	assert.Equal(t, "Window position set to (15, 25)", f.ok(t, "set_window_position", map[string]any{"x": float64(15), "y": float64(25)}))
	assert.Equal(t, "Window rect: x=15, y=25, width=1024, height=768", f.ok(t, "get_window_rect", nil))

	_, err := f.run(t, "set_window_size", map[string]any{"width": float64(0), "height": float64(768)})
	assert.ErrorContains(t, err, "must be positive")
}

func TestFrames(t *testing.T) {
	f := newFixture(t)
	outer := portstest.NewElement("outer", "iframe", "")
	f.client.Add(domain.Locator{
		Using: domain.UsingCSSSelector,
		Value: `iframe[name="outer"], frame[name="outer"], iframe#outer, frame#outer`,
	}, outer)

	assert.Equal(t, "Switched to frame: outer", f.ok(t, "switch_to_frame", map[string]any{"frame": "outer"}))
	assert.Equal(t, "Switched to frame: 1", f.ok(t, "switch_to_frame", map[string]any{"frame": float64(1)}))
	assert.Equal(t, 2, f.sess.FrameDepth())
	assert.Equal(t, []any{outer, 1}, f.client.FramePath())

	assert.Equal(t, "Switched to parent frame", f.ok(t, "switch_to_parent_frame", nil))
	assert.Equal(t, 1, f.sess.FrameDepth())
	assert.Equal(t, []any{outer}, f.client.FramePath(), "parent is re-entered from the top")

	assert.Equal(t, "Switched to default content", f.ok(t, "switch_to_default_content", nil))
	assert.Equal(t, 0, f.sess.FrameDepth())
	assert.Empty(t, f.client.FramePath())

	assert.Equal(t, "Switched to parent frame", f.ok(t, "switch_to_parent_frame", nil), "top level has no parent")

	_, err := f.run(t, "switch_to_frame", map[string]any{"frame": "missing"})
	assert.Error(t, err)
	_, err = f.run(t, "switch_to_frame", map[string]any{"frame": true})
	assert.ErrorContains(t, err, "number or a string")
}

func TestWindowSwitchResetsFrames(t *testing.T) {
	f := newFixture(t)
	f.ok(t, "switch_to_frame", map[string]any{"frame": float64(0)})
	require.Equal(t, 1, f.sess.FrameDepth())

	f.ok(t, "switch_to_window", map[string]any{"handle": "main"})
	assert.Equal(t, 0, f.sess.FrameDepth())
}

func TestAlerts(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "accept_alert", nil)
	assert.ErrorContains(t, err, "no such alert")

	f.client.ShowAlert("Are you sure?")
	assert.Equal(t, "Alert text: Are you sure?", f.ok(t, "get_alert_text", nil))
	assert.Equal(t, "Text sent to alert: yes", f.ok(t, "send_alert_text", map[string]any{"text": "yes"}))
	assert.Equal(t, "Alert accepted", f.ok(t, "accept_alert", nil))

	f.client.ShowAlert("again")
	assert.Equal(t, "Alert dismissed", f.ok(t, "dismiss_alert", nil))
	assert.Equal(t, "yes", f.client.AlertInput)
}

func TestWaits(t *testing.T) {
	f := newFixture(t)
	spinner := f.add("id", "spinner", portstest.NewElement("spinner", "div", ""))
	button := f.add("id", "save", portstest.NewElement("save", "button", "Save"))
	button.SetDisplayed(false)

	go func() {
		time.Sleep(40 * time.Millisecond)
		spinner.SetDisplayed(false)
		button.SetDisplayed(true)
	}()

	assert.Equal(t, "Element is no longer visible", f.ok(t, "wait_for_element_not_visible", at("id", "spinner")))
	assert.Equal(t, "Element is now visible", f.ok(t, "wait_for_element_visible", at("id", "save")))
	assert.Equal(t, "Element is now clickable", f.ok(t, "wait_for_element_clickable", at("id", "save")))
	assert.Equal(t, "Element is no longer visible", f.ok(t, "wait_for_element_not_visible", at("id", "never-there")),
		"absent elements count as not visible")
}

func TestWaitTimesOut(t *testing.T) {
	f := newFixture(t)
	hidden := f.add("id", "hidden", portstest.NewElement("hidden", "div", ""))
	hidden.SetDisplayed(false)

	_, err := f.run(t, "wait_for_element_visible", at("id", "hidden"))
	assert.ErrorContains(t, err, "timeout")

	_, err = f.run(t, "wait_for_element_not_visible", at("id", "spinner-that-stays"))
	assert.NoError(t, err)
}

func TestPageWaits(t *testing.T) {
	f := newFixture(t)

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = f.client.Navigate("tauri://localhost/done")
	}()
	assert.Equal(t, "URL now contains: /done", f.ok(t, "wait_for_url_contains", map[string]any{"url": "/done"}))
	assert.Equal(t, "Title now contains: Tauri", f.ok(t, "wait_for_title_contains", map[string]any{"title": "Tauri"}))

	_, err := f.run(t, "wait_for_title_contains", map[string]any{"title": "Nope"})
	assert.ErrorContains(t, err, `title did not contain "Nope"`)
}

func TestScripts(t *testing.T) {
	f := newFixture(t)
	var gotArgs []any
	f.client.ScriptFunc = func(script string, args []any) (any, error) {
		gotArgs = args
		return map[string]any{"ok": true}, nil
	}

	assert.Equal(t, `Script executed. Result: {"ok":true}`,
		f.ok(t, "execute_script", map[string]any{"script": "return {ok: true}", "args": []any{"a", float64(1)}}))
	assert.Equal(t, []any{"a", float64(1)}, gotArgs)
	assert.Equal(t, `Async script executed. Result: {"ok":true}`,
		f.ok(t, "execute_async_script", map[string]any{"script": "arguments[0]({ok: true})"}))
	assert.Equal(t, []any{}, gotArgs)

	f.client.ScriptFunc = nil
	assert.Equal(t, "Script executed. Result: null", f.ok(t, "execute_script", map[string]any{"script": "void 0"}))

	f.client.Errs["ExecuteScript"] = errors.New("javascript error: boom")
	_, err := f.run(t, "execute_script", map[string]any{"script": "throw new Error('boom')"})
	assert.EqualError(t, err, "javascript error: boom")
}

func TestScrolling(t *testing.T) {
	f := newFixture(t)
	f.add("id", "footer", portstest.NewElement("footer", "footer", ""))

	assert.Equal(t, "Scrolled to element", f.ok(t, "scroll_to_element", at("id", "footer")))
	assert.Contains(t, f.client.LastScript(), "scrollIntoView")
	assert.Equal(t, "Scrolled by x=0, y=250", f.ok(t, "scroll_by", map[string]any{"x": float64(0), "y": float64(250)}))
	assert.Equal(t, "Scrolled to top of page", f.ok(t, "scroll_to_top", nil))
	assert.Equal(t, "Scrolled to bottom of page", f.ok(t, "scroll_to_bottom", nil))
	assert.Contains(t, f.client.LastScript(), "scrollHeight")
}

func TestSelect(t *testing.T) {
	f := newFixture(t)
	f.add("id", "lang", portstest.NewElement("lang", "select", ""))
	f.client.ScriptFunc = func(script string, args []any) (any, error) {
		require.Len(t, args, 3)
		return args[1] == "Go" || args[1] == "go", nil
	}

	assert.Equal(t, "Selected option with text: Go", f.ok(t, "select_by_visible_text", with(at("id", "lang"), "text", "Go")))
	assert.Equal(t, "Selected option with value: go", f.ok(t, "select_by_value", with(at("id", "lang"), "optionValue", "go")))

	_, err := f.run(t, "select_by_value", with(at("id", "lang"), "optionValue", "cobol"))
	assert.ErrorContains(t, err, `no option with value "cobol"`)
}

func TestScreenshot(t *testing.T) {
	f := newFixture(t)

	res := f.ok(t, "take_screenshot", nil)
	assert.Equal(t, "Screenshot captured", res)
	full, err := f.run(t, "take_screenshot", nil)
	require.NoError(t, err)
	assert.Equal(t, portstest.PNG, full.Image)

	out := filepath.Join(t.TempDir(), "shot.png")
	assert.Equal(t, "Screenshot saved to "+out, f.ok(t, "take_screenshot", map[string]any{"outputPath": out}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, portstest.PNG, data)
}

func TestCapabilitiesAndTimeouts(t *testing.T) {
	f := newFixture(t)

	res, err := f.run(t, "get_capabilities", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"browserName": "wry"}`, res.Text)

	res, err = f.run(t, "get_timeouts", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"script": 30000, "pageLoad": 300000, "implicit": 0}`, res.Text)

	assert.Equal(t, `Timeouts set: {"implicit":500,"script":1000}`,
		f.ok(t, "set_timeouts", map[string]any{"script": float64(1000), "implicit": float64(500)}))
	assert.Equal(t, time.Second, f.client.ScriptTimeout)
	assert.Equal(t, 500*time.Millisecond, f.client.ImplicitWait)
	assert.False(t, f.client.Called("SetPageLoadTimeout"))

	res, err = f.run(t, "get_timeouts", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"script": 1000, "pageLoad": 300000, "implicit": 500}`, res.Text)
}
