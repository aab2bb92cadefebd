package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/locator"
)

func windowCommands() []Descriptor {
	return []Descriptor{
		{
			Name:        "get_window_handle",
			Description: "gets the current window handle",
			Label:       "Error getting window handle",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				h, err := call.Client.WindowHandle()
				if err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Current window handle: %s", h), nil
			},
		},
		{
			Name:        "get_all_window_handles",
			Description: "gets all window handles",
			Label:       "Error getting window handles",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				hs, err := call.Client.WindowHandles()
				if err != nil {
					return domain.Result{}, err
				}
				return domain.Text("All window handles: %s", strings.Join(hs, ", ")), nil
			},
		},
		{
			Name:        "switch_to_window",
			Description: "switches to a specific window by handle",
			Label:       "Error switching to window",
			Params:      []Param{str("handle", "Window handle to switch to")},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					Handle string `mapstructure:"handle"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				if err := call.Client.SwitchWindow(args.Handle); err != nil {
					return domain.Result{}, err
				}
				resetFrames(call)
				return domain.Text("Switched to window: %s", args.Handle), nil
			},
		},
		{
			Name:        "new_window",
			Description: "opens a new window or tab",
			Label:       "Error opening new window",
			Params: []Param{
				{Name: "type", Type: TypeString, Description: "Type of new window to open", Enum: []string{"tab", "window"}},
			},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					Type string `mapstructure:"type"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				if args.Type == "" {
					args.Type = "tab"
				}
				if args.Type != "tab" && args.Type != "window" {
					return domain.Result{}, fmt.Errorf("unsupported window type %q", args.Type)
				}
				h, err := call.Client.NewWindow(args.Type)
				if err != nil {
					return domain.Result{}, err
				}
				if err := call.Client.SwitchWindow(h); err != nil {
					return domain.Result{}, err
				}
				resetFrames(call)
				return domain.Text("New %s opened with handle: %s", args.Type, h), nil
			},
		},
		{
			Name:        "close_window",
			Description: "closes the current window",
			Label:       "Error closing window",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				h, err := call.Client.WindowHandle()
				if err != nil {
					return domain.Result{}, err
				}
				if err := call.Client.CloseWindow(h); err != nil {
					return domain.Result{}, err
				}
				resetFrames(call)
				return domain.Text("Current window closed"), nil
			},
		},
		{
			Name:        "maximize_window",
			Description: "maximizes the current window",
			Label:       "Error maximizing window",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return done(call.Client.MaximizeWindow(""), "Window maximized")
			},
		},
		{
			Name:        "minimize_window",
			Description: "minimizes the current window",
			Label:       "Error minimizing window",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return done(call.Client.MinimizeWindow(), "Window minimized")
			},
		},
		{
			Name:        "set_window_size",
			Description: "sets the size of the current window",
			Label:       "Error setting window size",
			Params:      []Param{num("width", "Window width in pixels"), num("height", "Window height in pixels")},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					Width  int `mapstructure:"width"`
					Height int `mapstructure:"height"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				if args.Width <= 0 || args.Height <= 0 {
					return domain.Result{}, fmt.Errorf("window size must be positive, got %dx%d", args.Width, args.Height)
				}
				if err := call.Client.ResizeWindow("", args.Width, args.Height); err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Window size set to %dx%d", args.Width, args.Height), nil
			},
		},
		{
			Name:        "set_window_position",
			Description: "sets the position of the current window",
			Label:       "Error setting window position",
			Params:      []Param{num("x", "X coordinate of the window"), num("y", "Y coordinate of the window")},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					X int `mapstructure:"x"`
					Y int `mapstructure:"y"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				if err := call.Client.MoveWindow(args.X, args.Y); err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Window position set to (%d, %d)", args.X, args.Y), nil
			},
		},
		{
			Name:        "get_window_rect",
			Description: "gets the position and size of the current window",
			Label:       "Error getting window rect",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				r, err := call.Client.WindowRect()
				if err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Window rect: x=%d, y=%d, width=%d, height=%d", r.X, r.Y, r.Width, r.Height), nil
			},
		},
		{
			Name:        "switch_to_frame",
			Description: "switches to a frame or iframe",
			Label:       "Error switching to frame",
			Params: []Param{
				{Name: "frame", Type: TypeAny, Description: "Frame index, name, or id", Required: true},
			},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				ref, label, err := frameRef(call)
				if err != nil {
					return domain.Result{}, err
				}
				if err := call.Client.SwitchFrame(ref); err != nil {
					return domain.Result{}, err
				}
				if call.Session != nil {
					call.Session.EnterFrame(ref)
				}
				return domain.Text("Switched to frame: %s", label), nil
			},
		},
		{
			Name:        "switch_to_parent_frame",
			Description: "switches to the parent frame",
			Label:       "Error switching to parent frame",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var path []any
				if call.Session != nil {
					path = call.Session.LeaveFrame()
				}
				if err := call.Client.SwitchFrame(nil); err != nil {
					return domain.Result{}, err
				}
				for _, ref := range path {
					if err := call.Client.SwitchFrame(ref); err != nil {
						return domain.Result{}, err
					}
				}
				return domain.Text("Switched to parent frame"), nil
			},
		},
		{
			Name:        "switch_to_default_content",
			Description: "switches back to the main document",
			Label:       "Error switching to default content",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				if err := call.Client.SwitchFrame(nil); err != nil {
					return domain.Result{}, err
				}
				resetFrames(call)
				return domain.Text("Switched to default content"), nil
			},
		},
		{
			Name:        "accept_alert",
			Description: "accepts the current alert",
			Label:       "Error accepting alert",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return done(call.Client.AcceptAlert(), "Alert accepted")
			},
		},
		{
			Name:        "dismiss_alert",
			Description: "dismisses the current alert",
			Label:       "Error dismissing alert",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return done(call.Client.DismissAlert(), "Alert dismissed")
			},
		},
		{
			Name:        "get_alert_text",
			Description: "gets the text of the current alert",
			Label:       "Error getting alert text",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				text, err := call.Client.AlertText()
				if err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Alert text: %s", text), nil
			},
		},
		{
			Name:        "send_alert_text",
			Description: "sends text to a prompt alert",
			Label:       "Error sending text to alert",
			Params:      []Param{str("text", "Text to send to the alert")},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					Text string `mapstructure:"text"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				if err := call.Client.SetAlertText(args.Text); err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Text sent to alert: %s", args.Text), nil
			},
		},
	}
}

// frameRef turns the "frame" argument into something SwitchFrame accepts.
// Numbers select by index; strings match a frame element by name or id.
func frameRef(call Call) (any, string, error) {
	switch v := call.Args["frame"].(type) {
	case float64:
		return int(v), fmt.Sprint(int(v)), nil
	case int:
		return v, fmt.Sprint(v), nil
	case string:
		sel := fmt.Sprintf(`iframe[name="%[1]s"], frame[name="%[1]s"], iframe#%[2]s, frame#%[2]s`,
			strings.ReplaceAll(v, `"`, `\"`), locator.EscapeCSS(v))
		el, err := call.Client.FindElement(domain.Locator{
			Using: domain.UsingCSSSelector,
			Value: sel,
			Spec:  domain.LocatorSpec{Strategy: "frame", Value: v},
		})
		if err != nil {
			return nil, "", err
		}
		return el, v, nil
	default:
		return nil, "", fmt.Errorf("frame must be a number or a string, got %T", v)
	}
}

func resetFrames(call Call) {
	if call.Session != nil {
		call.Session.ResetFrames()
	}
}
