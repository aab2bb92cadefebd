package commands

import (
	"context"

	"github.com/aretw0/tauribridge/pkg/domain"
)

func navigationCommands() []Descriptor {
	return []Descriptor{
		{
			Name:        "navigate",
			Description: "navigates to a URL",
			Label:       "Error navigating",
			Params:      []Param{str("url", "URL to navigate to")},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					URL string `mapstructure:"url"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				if err := call.Client.Navigate(args.URL); err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Navigated to %s", args.URL), nil
			},
		},
		{
			Name:        "go_back",
			Description: "navigates back in browser history",
			Label:       "Error navigating back",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return done(call.Client.Back(), "Navigated back")
			},
		},
		{
			Name:        "go_forward",
			Description: "navigates forward in browser history",
			Label:       "Error navigating forward",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return done(call.Client.Forward(), "Navigated forward")
			},
		},
		{
			Name:        "refresh_page",
			Description: "refreshes the current page",
			Label:       "Error refreshing page",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				return done(call.Client.Refresh(), "Page refreshed")
			},
		},
		{
			Name:        "get_current_url",
			Description: "gets the current page URL",
			Label:       "Error getting current URL",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				url, err := call.Client.CurrentURL()
				if err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Current URL: %s", url), nil
			},
		},
		{
			Name:        "get_title",
			Description: "gets the page title",
			Label:       "Error getting page title",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				title, err := call.Client.Title()
				if err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Page title: %s", title), nil
			},
		},
		{
			Name:        "get_page_source",
			Description: "gets the page source HTML",
			Label:       "Error getting page source",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				src, err := call.Client.PageSource()
				if err != nil {
					return domain.Result{}, err
				}
				return domain.Text("%s", src), nil
			},
		},
	}
}

// done turns a bare error into a result with a fixed success message.
func done(err error, msg string) (domain.Result, error) {
	if err != nil {
		return domain.Result{}, err
	}
	return domain.Text("%s", msg), nil
}
