package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/locator"
	"github.com/aretw0/tauribridge/pkg/ports"
)

func waitCommands() []Descriptor {
	return []Descriptor{
		{
			Name:        "wait_for_element_visible",
			Description: "waits for an element to become visible",
			Label:       "Error waiting for element to be visible",
			Params:      locatorParams(),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return waitUntil(call, ports.Element.IsDisplayed, "Element is now visible")
			},
		},
		{
			Name:        "wait_for_element_clickable",
			Description: "waits for an element to become clickable",
			Label:       "Error waiting for element to be clickable",
			Params:      locatorParams(),
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return waitUntil(call, clickable, "Element is now clickable")
			},
		},
		{
			Name:        "wait_for_element_not_visible",
			Description: "waits for an element to become hidden or absent",
			Label:       "Error waiting for element to be not visible",
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
				err = call.Client.Wait(func(c ports.Client) (bool, error) {
					el, err := c.FindElement(loc)
					if err != nil {
						return true, nil
					}
					shown, err := el.IsDisplayed()
					if err != nil {
						// stale references mean the element left the DOM
						return true, nil
					}
					return !shown, nil
				}, call.Wait)
				if err != nil {
					return domain.Result{}, fmt.Errorf("element %s still visible after %s: %w", loc, call.Wait, err)
				}
				return domain.Text("Element is no longer visible"), nil
			},
		},
		pageWait("wait_for_title_contains", "waits for the page title to contain text", "Error waiting for title to contain text",
			"title", "Text that should be contained in title", "Title now contains: %s", ports.Client.Title),
		pageWait("wait_for_url_contains", "waits for the URL to contain text", "Error waiting for URL to contain text",
			"url", "Text that should be contained in URL", "URL now contains: %s", ports.Client.CurrentURL),
	}
}

func clickable(el ports.Element) (bool, error) {
	shown, err := el.IsDisplayed()
	if err != nil || !shown {
		return false, err
	}
	return el.IsEnabled()
}

func waitUntil(call Call, accept func(ports.Element) (bool, error), msg string) (domain.Result, error) {
	var args locatorArgs
	if err := call.Decode(&args); err != nil {
		return domain.Result{}, err
	}
	loc, err := locator.Resolve(args.By, args.Value)
	if err != nil {
		return domain.Result{}, err
	}
	if _, err := waitForElement(call.Client, loc, call.Wait, accept); err != nil {
		return domain.Result{}, err
	}
	return domain.Text("%s", msg), nil
}

func pageWait(name, desc, label, param, paramDesc, msg string, read func(ports.Client) (string, error)) Descriptor {
	return Descriptor{
		Name:        name,
		Description: desc,
		Label:       label,
		Params:      []Param{str(param, paramDesc), timeoutParam("Maximum time to wait in milliseconds")},
		Handler: func(ctx context.Context, call Call) (domain.Result, error) {
			want, _ := call.Args[param].(string)
			err := call.Client.Wait(func(c ports.Client) (bool, error) {
				got, err := read(c)
				if err != nil {
					return false, nil
				}
				return strings.Contains(got, want), nil
			}, call.Wait)
			if err != nil {
				return domain.Result{}, fmt.Errorf("%s did not contain %q within %s: %w", param, want, call.Wait.Round(time.Millisecond), err)
			}
			return domain.Text(msg, want), nil
		},
	}
}
