package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWithFormat(t *testing.T) {
	assert.IsType(t, &slog.JSONHandler{}, NewWithFormat("json", slog.LevelInfo).Handler())
	assert.IsType(t, &slog.TextHandler{}, NewWithFormat("text", slog.LevelInfo).Handler())
	assert.IsType(t, &slog.TextHandler{}, NewWithFormat("", slog.LevelInfo).Handler())
}
