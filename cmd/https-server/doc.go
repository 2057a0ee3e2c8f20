// Command https-server is a demonstration daemon wiring the module's
// builders together: a CertPoolValidator from a CA bundle, a bounded
// worker pool publishing to the metrics registry, and a TLS connector
// serving a trivial JSON handler.
package main
