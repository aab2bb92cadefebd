package commands

import (
	"context"
	"os"
	"time"

	"github.com/aretw0/tauribridge/pkg/domain"
)

func sessionCommands() []Descriptor {
	return []Descriptor{
		{
			Name:        "take_screenshot",
			Description: "captures a screenshot of the current page",
			Label:       "Error taking screenshot",
			Params: []Param{
				{Name: "outputPath", Type: TypeString, Description: "Optional path where to save the screenshot. If not provided, returns the image."},
			},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					OutputPath string `mapstructure:"outputPath"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				png, err := call.Client.Screenshot()
				if err != nil {
					return domain.Result{}, err
				}
				if args.OutputPath == "" {
					return domain.Image("Screenshot captured", png), nil
				}
				if err := os.WriteFile(args.OutputPath, png, 0o644); err != nil {
					return domain.Result{}, err
				}
				return domain.Text("Screenshot saved to %s", args.OutputPath), nil
			},
		},
		{
			Name:        "get_capabilities",
			Description: "gets the session capabilities",
			Label:       "Error getting capabilities",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				caps, err := call.Client.Capabilities()
				if err != nil {
					return domain.Result{}, err
				}
				return domain.Data(caps), nil
			},
		},
		{
			Name:        "set_timeouts",
			Description: "sets the session timeouts",
			Label:       "Error setting timeouts",
			Params: []Param{
				optNum("script", "Script timeout in milliseconds"),
				optNum("pageLoad", "Page load timeout in milliseconds"),
				optNum("implicit", "Implicit wait timeout in milliseconds"),
			},
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				var args struct {
					Script   *int `mapstructure:"script"`
					PageLoad *int `mapstructure:"pageLoad"`
					Implicit *int `mapstructure:"implicit"`
				}
				if err := call.Decode(&args); err != nil {
					return domain.Result{}, err
				}
				applied := map[string]int{}
				if args.Script != nil {
					if err := call.Client.SetScriptTimeout(millis(*args.Script)); err != nil {
						return domain.Result{}, err
					}
					applied["script"] = *args.Script
				}
				if args.PageLoad != nil {
					if err := call.Client.SetPageLoadTimeout(millis(*args.PageLoad)); err != nil {
						return domain.Result{}, err
					}
					applied["pageLoad"] = *args.PageLoad
				}
				if args.Implicit != nil {
					if err := call.Client.SetImplicitWait(millis(*args.Implicit)); err != nil {
						return domain.Result{}, err
					}
					applied["implicit"] = *args.Implicit
				}
				if call.Session != nil {
					call.Session.UpdateTimeouts(func(t *domain.Timeouts) {
						if args.Script != nil {
							t.Script = *args.Script
						}
						if args.PageLoad != nil {
							t.PageLoad = *args.PageLoad
						}
						if args.Implicit != nil {
							t.Implicit = *args.Implicit
						}
					})
				}
				return domain.Text("Timeouts set: %s", toJSON(applied)), nil
			},
		},
		{
			Name:        "get_timeouts",
			Description: "gets the session timeouts",
			Label:       "Error getting timeouts",
			Handler: func(ctx context.Context, call Call) (domain.Result, error) {
				t := domain.DefaultTimeouts()
				if call.Session != nil {
					t = call.Session.Timeouts()
				}
				return domain.Data(t), nil
			},
		},
	}
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
