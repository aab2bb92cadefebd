package webdriver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/tauribridge/internal/logging"
	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/ports"
	"github.com/tebeka/selenium"
)

// Dialer opens WebDriver sessions against a running driver.
type Dialer struct {
	http   *http.Client
	logger *slog.Logger
	remote func(caps selenium.Capabilities, url string) (selenium.WebDriver, error)
}

// Option configures a Dialer.
type Option func(*Dialer)

// WithHTTPClient sets the client used for commands sent outside the selenium library.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dialer) {
		if c != nil {
			d.http = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dialer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDialer creates a Dialer.
func NewDialer(opts ...Option) *Dialer {
	d := &Dialer{
		http:   http.DefaultClient,
		logger: logging.NewNop(),
		remote: selenium.NewRemote,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Capabilities builds the new-session capabilities for req.
// The application path travels in the tauri:options vendor capability.
func Capabilities(req ports.DialRequest) selenium.Capabilities {
	caps := selenium.Capabilities{}
	for k, v := range req.Capabilities {
		caps[k] = v
	}
	browser := req.BrowserName
	if browser == "" {
		browser = domain.BrowserName
	}
	caps["browserName"] = browser

	opts := map[string]any{}
	if existing, ok := caps[domain.CapabilityTauriOptions].(map[string]any); ok {
		for k, v := range existing {
			opts[k] = v
		}
	}
	opts["application"] = req.Application
	caps[domain.CapabilityTauriOptions] = opts
	return caps
}

// Dial creates a session. The library call cannot be cancelled; when ctx ends
// first, the late session is quit in the background.
func (d *Dialer) Dial(ctx context.Context, req ports.DialRequest) (ports.Client, error) {
	if req.DriverURL == "" {
		return nil, fmt.Errorf("dial: driver url is required")
	}

	type dialed struct {
		wd  selenium.WebDriver
		err error
	}
	ch := make(chan dialed, 1)
	go func() {
		wd, err := d.remote(Capabilities(req), req.DriverURL)
		ch <- dialed{wd, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("create session at %s: %w", req.DriverURL, res.err)
		}
		d.logger.Debug("session created", "remote_id", res.wd.SessionID(), "application", req.Application)
		return &Client{
			wd:    res.wd,
			proto: &protocol{base: req.DriverURL, session: res.wd.SessionID(), http: d.http},
		}, nil
	case <-ctx.Done():
		go func() {
			if res := <-ch; res.err == nil {
				_ = res.wd.Quit()
			}
		}()
		return nil, ctx.Err()
	}
}

var _ ports.Dialer = (*Dialer)(nil)
