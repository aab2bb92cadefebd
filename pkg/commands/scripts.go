package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/ports"
)

const (
	scriptScrollIntoView = "arguments[0].scrollIntoView(true);"
	scriptScrollBy       = "window.scrollBy(arguments[0], arguments[1]);"
	scriptScrollTop      = "window.scrollTo(0, 0);"
	scriptScrollBottom   = "window.scrollTo(0, document.body.scrollHeight);"

	// scriptSelect picks the first option whose property arguments[2] equals arguments[1]
	// and reports whether one matched.
	scriptSelect = `const select = arguments[0];
for (let i = 0; i < select.options.length; i++) {
  if (select.options[i][arguments[2]] === arguments[1]) {
    select.selectedIndex = i;
    select.dispatchEvent(new Event('change', { bubbles: true }));
    return true;
  }
}
return false;`
)

func scriptCommands() []Descriptor {
	return []Descriptor{
		scriptCommand("execute_script", "executes JavaScript in the browser", "Error executing script",
			"JavaScript code to execute", "Script executed", ports.Client.ExecuteScript),
		scriptCommand("execute_async_script", "executes asynchronous JavaScript in the browser", "Error executing async script",
			"Asynchronous JavaScript code to execute", "Async script executed", ports.Client.ExecuteScriptAsync),
		{
			Name:        "scroll_to_element",
			Description: "scrolls an element into view",
			Label:       "Error scrolling to element",
			Params:      locatorParams(),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					_, err := call.Client.ExecuteScript(scriptScrollIntoView, []any{el})
					return done(err, "Scrolled to element")
				})
			},
		},
		{
			Name:        "scroll_by",
			Description: "scrolls the page by specified pixels",
			Label:       "Error scrolling",
			Params:      []Param{num("x", "Horizontal pixels to scroll"), num("y", "Vertical pixels to scroll")},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					X int `mapstructure:"x"`
					Y int `mapstructure:"y"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				if _, err := call.Client.ExecuteScript(scriptScrollBy, []any{args.X, args.Y}); err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Scrolled by x=%d, y=%d", args.X, args.Y), nil
			},
		},
		{
			Name:        "scroll_to_top",
			Description: "scrolls to the top of the page",
			Label:       "Error scrolling to top",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				_, err := call.Client.ExecuteScript(scriptScrollTop, nil)
				return done(err, "Scrolled to top of page")
			},
		},
		{
			Name:        "scroll_to_bottom",
			Description: "scrolls to the bottom of the page",
			Label:       "Error scrolling to bottom",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				_, err := call.Client.ExecuteScript(scriptScrollBottom, nil)
				return done(err, "Scrolled to bottom of page")
			},
		},
		selectCommand("select_by_visible_text", "selects an option from a dropdown by visible text", "Error selecting by text",
			"text", "Visible text of the option to select", "text", "Selected option with text: %s"),
		selectCommand("select_by_value", "selects an option from a dropdown by value", "Error selecting by value",
			"optionValue", "Value of the option to select", "value", "Selected option with value: %s"),
	}
}

func scriptCommand(name, desc, label, scriptDesc, msg string, run func(ports.Client, string, []any) (any, error)) Descriptor {
	return Descriptor{
		Name:        name,
		Description: desc,
		Label:       label,
		Params: []Param{
			str("script", scriptDesc),
			{Name: "args", Type: TypeArray, Description: "Arguments to pass to the script"},
		},
		Handler: func(ctx context.Context, call Call) (domain.Result, error) {
			var args struct {
				Script string `mapstructure:"script"`
				Args   []any  `mapstructure:"args"`
			}
			if err := call.Decode(&args); err != nil {
				return domain.Result{}, err
			}
			if args.Args == nil {
				args.Args = []any{}
			}
			out, err := run(call.Client, args.Script, args.Args)
			if err != nil {
				return domain.Result{}, err
			}
			return domain.Text("%s. Result: %s", msg, toJSON(out)), nil
		},
	}
}

func selectCommand(name, desc, label, param, paramDesc, property, msg string) Descriptor {
	return Descriptor{
		Name:        name,
		Description: desc,
		Label:       label,
		Params:      locatorParams(str(param, paramDesc)),
		Handler: func(ctx context.Context, call Call) (domain.Result, error) {
			want, _ := call.Args[param].(string)
			return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
				out, err := call.Client.ExecuteScript(scriptSelect, []any{el, want, property})
				if err != nil {
					return domain.Result{}, err
				}
				if matched, ok := out.(bool); ok && !matched {
					return domain.Result{}, fmt.Errorf("no option with %s %q", property, want)
				}
				return domain.Text(msg, want), nil
			})
		},
	}
}

// toJSON renders v the way JSON.stringify would; undefined results become "null".
func toJSON(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}
