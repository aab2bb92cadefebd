package commands

import (
	"context"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/locator"
	"github.com/aretw0/tauribridge/pkg/ports"
)

func actionCommands() []Descriptor {
	return []Descriptor{
		pointerCommand("hover", "moves the mouse to hover over an element", "Error hovering over element",
			"Hovered over element", ports.Client.Hover),
		pointerCommand("double_click", "performs a double click on an element", "Error performing double click",
			"Double click performed", ports.Client.DoubleClick),
		pointerCommand("right_click", "performs a right click (context click) on an element", "Error performing right click",
			"Right click performed", ports.Client.ContextClick),
		pointerCommand("click_and_hold", "clicks and holds the mouse button on an element", "Error clicking and holding",
			"Mouse button held down on element", ports.Client.ClickAndHold),
		{
			Name:        "drag_and_drop",
			Description: "drags an element and drops it onto another element",
			Label:       "Error performing drag and drop",
			Params: locatorParams(
				Param{Name: "targetBy", Type: TypeString, Description: "Locator strategy to find target element", Required: true, Enum: locator.Strategies()},
				str("targetValue", "Value for the target locator strategy"),
			),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					TargetBy    string `mapstructure:"targetBy"`
					TargetValue string `mapstructure:"targetValue"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				return element(call, func(source ports.Element, _ locatorArgs) (domain.Result, error) {
					target, err := locate(call.Client, locatorArgs{By: args.TargetBy, Value: args.TargetValue}, call.Wait)
					if err != nil {
						return domain.Result{}, err
					}
					return done(call.Client.DragAndDrop(source, target), "Drag and drop completed")
				})
			},
		},
		{
			Name:        "release",
			Description: "releases the held mouse button",
			Label:       "Error releasing mouse button",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return done(call.Client.ReleasePointer(), "Mouse button released")
			},
		},
		{
			Name:        "move_by_offset",
			Description: "moves the mouse by an offset from its current position",
			Label:       "Error moving mouse",
			Params:      []Param{num("x", "Horizontal offset in pixels"), num("y", "Vertical offset in pixels")},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					X int `mapstructure:"x"`
					Y int `mapstructure:"y"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				if err := call.Client.MoveBy(args.X, args.Y); err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Mouse moved by offset x=%d, y=%d", args.X, args.Y), nil
			},
		},
		{
			Name:        "press_key",
			Description: "simulates pressing a keyboard key",
			Label:       "Error pressing key",
			Params:      []Param{str("key", "Key to press (e.g., 'Enter', 'Tab', 'a', etc.)")},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				key, err := keyArg(call)
				if err != nil {
					return domain.Result{}, err
				}
				code := KeyCode(key)
				if err := call.Client.KeyDown(code); err != nil {
					return domain.Result{}, err
				}
				if err := call.Client.KeyUp(code); err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Key '%s' pressed", key), nil
			},
		},
		{
			Name:        "key_down",
			Description: "presses a key down without releasing it",
			Label:       "Error pressing key down",
			Params:      []Param{str("key", "Key to press down (e.g., 'Shift', 'Control', 'a', etc.)")},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				key, err := keyArg(call)
				if err != nil {
					return domain.Result{}, err
				}
				if err := call.Client.KeyDown(KeyCode(key)); err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Key down: %s", key), nil
			},
		},
		{
			Name:        "key_up",
			Description: "releases a previously pressed key",
			Label:       "Error releasing key",
			Params:      []Param{str("key", "Key to release (e.g., 'Shift', 'Control', 'a', etc.)")},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				key, err := keyArg(call)
				if err != nil {
					return domain.Result{}, err
				}
				if err := call.Client.KeyUp(KeyCode(key)); err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Key up: %s", key), nil
			},
		},
		{
			Name:        "send_keys_active",
			Description: "sends keys to the currently focused element",
			Label:       "Error sending keys to active element",
			Params:      []Param{str("text", "Text to send to the active element")},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					Text string `mapstructure:"text"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				if err := call.Client.SendKeysActive(args.Text); err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Sent keys to active element: %s", args.Text), nil
			},
		},
	}
}

func pointerCommand(name, desc, label, msg string, act func(ports.Client, ports.Element) error) Descriptor {
	return Descriptor{
		Name:        name,
		Description: desc,
		Label:       label,
		Params:      locatorParams(),
		Handler: func(ctx context.Context, call Call) (domain.Result, error) {
			return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
				return done(act(call.Client, el), msg)
			})
		},
	}
}

func keyArg(call Call) (string, error) {
	var args struct {
		Key string `mapstructure:"key"`
	}
	if err := call.Decode(&args); err != nil {
		return "", err
	}
	return args.Key, nil
}
