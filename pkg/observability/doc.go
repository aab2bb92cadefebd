/*
Package observability provides the metrics and tracing used by the bridge.

Metrics are Prometheus collectors registered on a caller-supplied registry so
that tests and embedders can keep them isolated. Tracing uses OpenTelemetry;
spans are only exported when a TracerProvider is installed, otherwise the
global no-op provider makes every span free.
*/
package observability
