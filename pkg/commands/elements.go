package commands

import (
	"context"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/locator"
	"github.com/aretw0/tauribridge/pkg/ports"
)

func elementCommands() []Descriptor {
	return []Descriptor{
		{
			Name:        "find_element",
			Description: "finds an element",
			Label:       "Error finding element",
			Params:      locatorParams(),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return element(call, func(ports.Element, locatorArgs) (domain.Result, error) {
					return domain.Text("Element found"), nil
				})
			},
		},
		{
			Name:        "find_elements",
			Description: "finds multiple elements",
			Label:       "Error finding elements",
			Params:      locatorParams(),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args locatorArgs
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				loc, err := locator.Resolve(args.By, args.Value)
				if err != nil {
					return domain.Result{}, err
				}
				els, err := call.Client.FindElements(loc)
				if err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Found %d elements", len(els)), nil
			},
		},
		{
			Name:        "click_element",
			Description: "clicks an element",
			Label:       "Error clicking element",
			Params:      locatorParams(),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					return done(el.Click(), "Element clicked")
				})
			},
		},
		{
			Name:        "send_keys",
			Description: "sends keys to an element, aka typing",
			Label:       "Error entering text",
			Params:      locatorParams(str("text", "Text to enter into the element")),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					Text string `mapstructure:"text"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					if err := el.Clear(); err != nil {
						return domain.Result{}, err
					}
					if err := el.SendKeys(args.Text); err != nil {
						return domain.Result{}, err
					}
					return domain.Text("Text %q entered into element", args.Text), nil
				})
			},
		},
		{
			Name:        "upload_file",
			Description: "uploads a file using a file input element",
			Label:       "Error uploading file",
			Params:      locatorParams(str("filePath", "Absolute path to the file to upload")),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					FilePath string `mapstructure:"filePath"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					return done(el.SendKeys(args.FilePath), "File upload initiated")
				})
			},
		},
		{
			Name:        "submit_element",
			Description: "submits a form element",
			Label:       "Error submitting element",
			Params:      locatorParams(),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					return done(el.Submit(), "Element submitted")
				})
			},
		},
		{
			Name:        "get_element_text",
			Description: "gets the text() of an element",
			Label:       "Error getting element text",
			Params:      locatorParams(),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					text, err := el.Text()
					if err != nil {
						return domain.Result{}, err
					}
					return domain.Text("%s", text), nil
				})
			},
		},
		{
			Name:        "get_element_attribute",
			Description: "gets an attribute value of an element",
			Label:       "Error getting element attribute",
			Params:      locatorParams(str("attribute", "Name of the attribute to get")),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					Attribute string `mapstructure:"attribute"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					v, err := el.Attribute(args.Attribute)
					if err != nil {
						return domain.Result{}, err
					}
					return domain.Text("Attribute '%s': %s", args.Attribute, v), nil
				})
			},
		},
		{
			Name:        "get_element_property",
			Description: "gets a DOM property value of an element",
			Label:       "Error getting element property",
			Params:      locatorParams(str("property", "Name of the property to get")),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					Property string `mapstructure:"property"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					v, err := el.Property(args.Property)
					if err != nil {
						return domain.Result{}, err
					}
					return domain.Text("Property '%s': %s", args.Property, render(v)), nil
				})
			},
		},
		{
			Name:        "get_element_css_value",
			Description: "gets a computed CSS property value of an element",
			Label:       "Error getting CSS value",
			Params:      locatorParams(str("cssProperty", "Name of the CSS property to get")),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					Property string `mapstructure:"cssProperty"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					v, err := el.CSSValue(args.Property)
					if err != nil {
						return domain.Result{}, err
					}
					return domain.Text("CSS property '%s': %s", args.Property, v), nil
				})
			},
		},
		stateCommand("is_element_displayed", "checks if an element is displayed", "Error checking if element is displayed", "displayed", ports.Element.IsDisplayed),
		stateCommand("is_element_enabled", "checks if an element is enabled", "Error checking if element is enabled", "enabled", ports.Element.IsEnabled),
		stateCommand("is_element_selected", "checks if an element is selected", "Error checking if element is selected", "selected", ports.Element.IsSelected),
		{
			Name:        "get_element_tag_name",
			Description: "gets the tag name of an element",
			Label:       "Error getting element tag name",
			Params:      locatorParams(),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					tag, err := el.TagName()
					if err != nil {
						return domain.Result{}, err
					}
					return domain.Text("Element tag name: %s", tag), nil
				})
			},
		},
		{
			Name:        "get_element_size",
			Description: "gets the size of an element",
			Label:       "Error getting element size",
			Params:      locatorParams(),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					size, err := el.Size()
					if err != nil {
						return domain.Result{}, err
					}
					return domain.Text("Element size: width=%d, height=%d", size.Width, size.Height), nil
				})
			},
		},
		{
			Name:        "get_element_location",
			Description: "gets the location of an element",
			Label:       "Error getting element location",
			Params:      locatorParams(),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					pt, err := el.Location()
					if err != nil {
						return domain.Result{}, err
					}
					return domain.Text("Element location: x=%d, y=%d", pt.X, pt.Y), nil
				})
			},
		},
		{
			Name:        "get_element_rect",
			Description: "gets the position and size of an element",
			Label:       "Error getting element rect",
			Params:      locatorParams(),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
					pt, err := el.Location()
					if err != nil {
						return domain.Result{}, err
					}
					size, err := el.Size()
					if err != nil {
						return domain.Result{}, err
					}
					return domain.Text("Element rect: x=%d, y=%d, width=%d, height=%d", pt.X, pt.Y, size.Width, size.Height), nil
				})
			},
		},
	}
}

func stateCommand(name, desc, label, state string, probe func(ports.Element) (bool, error)) Descriptor {
	return Descriptor{
		Name:        name,
		Description: desc,
		Label:       label,
		Params:      locatorParams(),
		Handler: func(ctx context.Context, call Call) (domain.Result, error) {
			return element(call, func(el ports.Element, _ locatorArgs) (domain.Result, error) {
				ok, err := probe(el)
				if err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Element is %s: %t", state, ok), nil
			})
		},
	}
}

// render formats a script or property value for display.
func render(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	default:
		return toJSON(v)
	}
}
