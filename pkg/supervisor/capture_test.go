package supervisor

import (
	"context"
	"log/slog"
)

// captureHandler records the "line" attribute of every record.
type captureHandler struct {
	lines *[]string
}

func newCaptureLogger(lines *[]string) *slog.Logger {
	return slog.New(&captureHandler{lines: lines})
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "line" {
			*h.lines = append(*h.lines, a.Value.String())
		}
		return true
	})
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }
