/*
Package httpserver implements an embeddable HTTP server fronted by
TLS connectors.

The server itself opens no listener: traffic arrives through
connectors built with the connector package against Inner() and
registered via AttachConnector. The server contributes the routing
shell around the caller's handler:

  - /livez, /readyz - liveness and readiness checks
  - /drain, /undrain - readiness toggling for load balancer draining
  - /debug - pprof endpoints, when enabled
  - optional Prometheus metrics on a dedicated address

RunInBackground starts the metrics server and every connector in
goroutines; Shutdown drains them gracefully within the configured
timeout.
*/
package httpserver
