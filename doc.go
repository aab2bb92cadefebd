/*
Package tauribridge drives Tauri desktop applications over WebDriver on behalf of MCP clients.

A Bridge owns the pieces a running server needs: the tauri-driver supervisor,
the session registry, the command catalogue, the executor that bounds and
recovers every command, and the coordinator that tears everything down once.

# Usage

	bridge := tauribridge.New(tauribridge.WithLogger(logger))
	defer bridge.Shutdown(shutdown.CauseExplicit, nil)

	res := bridge.Call(ctx, "start_tauri_app", map[string]any{
		"application": "/path/to/app",
	})
	if res.IsError {
		log.Fatal(res.Message)
	}

	res = bridge.Call(ctx, "click_element", map[string]any{
		"by": "css", "value": "#submit",
	})

Transports live in pkg/adapters: the MCP adapter exposes every catalogue entry
as a tool and the HTTP adapter serves /healthz and /metrics.
*/
package tauribridge
