package mcp

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/tauribridge/pkg/commands"
	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBridge struct {
	mu      sync.Mutex
	descs   []commands.Descriptor
	results map[string]domain.Result
	calls   []string
	status  string
	panicOn string
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{
		descs: []commands.Descriptor{
			{Name: "navigate", Description: "navigates to a URL", Params: []commands.Param{
				{Name: "url", Type: commands.TypeString, Description: "URL to navigate to", Required: true},
			}},
			{Name: "switch_to_frame", Description: "switches to a frame", Params: []commands.Param{
				{Name: "frame", Type: commands.TypeAny, Description: "Frame index or name", Required: true},
			}},
			{Name: "take_screenshot", Description: "captures a screenshot"},
		},
		results: map[string]domain.Result{},
		status:  "No active Tauri session",
	}
}

func (b *fakeBridge) Commands() []commands.Descriptor { return b.descs }

func (b *fakeBridge) Call(ctx context.Context, name string, args map[string]any) domain.Result {
	b.mu.Lock()
	b.calls = append(b.calls, name)
	res, ok := b.results[name]
	b.mu.Unlock()
	if name == b.panicOn {
		panic("bridge exploded")
	}
	if !ok {
		return domain.Failure("Error running "+name, domain.ErrNoActiveSession)
	}
	return res
}

func (b *fakeBridge) Status() string { return b.status }

func (b *fakeBridge) Health() domain.Health {
	return domain.Health{Status: domain.HealthOK, Version: "test"}
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok, "first content is text")
	return tc.Text
}

func TestTool_Schema(t *testing.T) {
	b := newFakeBridge()

	nav := Tool(b.descs[0])
	assert.Equal(t, "navigate", nav.Name)
	assert.Equal(t, "navigates to a URL", nav.Description)
	assert.Contains(t, nav.InputSchema.Required, "url")
	assert.Contains(t, nav.InputSchema.Properties, "url")

	frame := Tool(b.descs[1])
	prop, ok := frame.InputSchema.Properties["frame"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"number", "string"}, prop["type"])
	assert.Contains(t, frame.InputSchema.Required, "frame")
}

func TestToolResult(t *testing.T) {
	res := ToolResult(domain.Text("Navigated to x"))
	assert.False(t, res.IsError)
	assert.Equal(t, "Navigated to x", text(t, res))

	res = ToolResult(domain.Failure("Error navigating", errors.New("boom")))
	assert.True(t, res.IsError)
	assert.Equal(t, "Error navigating: boom", text(t, res))

	res = ToolResult(domain.Image("Screenshot captured", []byte{1, 2, 3}))
	assert.False(t, res.IsError)
	var img mcp.ImageContent
	for _, c := range res.Content {
		if ic, ok := mcp.AsImageContent(c); ok {
			img = *ic
		}
	}
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{1, 2, 3}), img.Data)
	assert.Equal(t, "image/png", img.MIMEType)
}

func TestHandler_FailuresAreToolResults(t *testing.T) {
	b := newFakeBridge()
	s := NewServer(b)

	res, err := s.handler("navigate")(context.Background(), call("navigate", map[string]any{"url": "x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Error running navigate: no active session", text(t, res))
}

func TestHandler_PanicIsContained(t *testing.T) {
	b := newFakeBridge()
	b.panicOn = "navigate"
	var reported error
	s := NewServer(b, WithPanicHandler(func(err error) { reported = err }))

	res, err := s.handler("navigate")(context.Background(), call("navigate", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "bridge exploded")
	require.Error(t, reported)
	assert.Contains(t, reported.Error(), "tool navigate: panic")
}

func TestStatusResource(t *testing.T) {
	b := newFakeBridge()
	s := NewServer(b)

	contents, err := s.readStatus(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, StatusURI, tc.URI)
	assert.Equal(t, "No active Tauri session", tc.Text)

	b.status = "Active Tauri session: tauri_1"
	contents, err = s.readStatus(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Active Tauri session: tauri_1", contents[0].(mcp.TextResourceContents).Text)
}

func TestServeStdio_RoundTrip(t *testing.T) {
	b := newFakeBridge()
	b.results["navigate"] = domain.Text("Navigated to tauri://localhost/")
	s := NewServer(b)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- s.ServeStdio(context.Background(), inR, outW) }()

	lines := bufio.NewScanner(outR)
	send := func(msg string) string {
		t.Helper()
		_, err := io.WriteString(inW, msg+"\n")
		require.NoError(t, err)
		require.True(t, lines.Scan(), "response expected")
		return lines.Text()
	}

	resp := send(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`)
	assert.Contains(t, resp, `"tauri-mcp"`)

	resp = send(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"navigate","arguments":{"url":"tauri://localhost/"}}}`)
	assert.Contains(t, resp, "Navigated to tauri://localhost/")

	resp = send(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"take_screenshot","arguments":{}}}`)
	assert.Contains(t, resp, `"isError":true`)
	assert.Contains(t, resp, "no active session")

	require.NoError(t, inW.Close())
	select {
	case err := <-done:
		assert.NoError(t, err, "stdin EOF ends the transport cleanly")
	case <-time.After(2 * time.Second):
		t.Fatal("stdio server did not stop on EOF")
	}
	_ = outW.Close()
}

func TestHandler_MountsOperatorRoutes(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# HELP"))
	})
	s := NewServer(newFakeBridge(), WithMetricsHandler(metrics))
	h := s.Handler("http://localhost:0")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "# HELP", w.Body.String())
}
