package tauribridge

// Version is the server version reported to MCP clients and on /healthz.
// Release builds override it with -ldflags "-X github.com/aretw0/tauribridge.Version=...".
var Version = "0.1.0"
