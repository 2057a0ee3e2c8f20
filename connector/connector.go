package connector

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
)

// Connector is a built, not-yet-started TLS network listener attached
// to one server. It serves the attached server's handler through a
// per-connector http.Server clone so the framing configuration stays
// local to this connector.
type Connector struct {
	port       int
	tlsConfig  *tls.Config
	httpConfig *HTTPConfiguration
	srv        *http.Server

	mu sync.Mutex
	ln net.Listener
}

// newConnector derives the per-connector server from the attached one:
// same handler, timeouts and error log, with the framing configuration
// applied on top.
func newConnector(attached *http.Server, port int, tlsConfig *tls.Config, httpConfig *HTTPConfiguration) *Connector {
	handler := attached.Handler
	if handler == nil {
		handler = http.DefaultServeMux
	}

	srv := &http.Server{
		Handler:           httpConfig.wrap(handler),
		ReadTimeout:       attached.ReadTimeout,
		ReadHeaderTimeout: attached.ReadHeaderTimeout,
		WriteTimeout:      attached.WriteTimeout,
		IdleTimeout:       attached.IdleTimeout,
		MaxHeaderBytes:    httpConfig.RequestHeaderSize,
		ErrorLog:          attached.ErrorLog,
		BaseContext:       attached.BaseContext,
		ConnContext:       attached.ConnContext,
	}

	return &Connector{
		port:       port,
		tlsConfig:  tlsConfig,
		httpConfig: httpConfig,
		srv:        srv,
	}
}

// Bind opens the connector's TCP socket and layers TLS on top of it.
// It may be called once; Serve calls it implicitly when needed.
func (c *Connector) Bind() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ln != nil {
		return fmt.Errorf("connector already bound to %s", c.ln.Addr())
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", c.port))
	if err != nil {
		return fmt.Errorf("failed to bind port %d: %w", c.port, err)
	}

	c.ln = tls.NewListener(ln, c.tlsConfig)
	return nil
}

// Serve accepts connections until Shutdown or Close, binding first if
// Bind was not called. Like http.Server.Serve it always returns a
// non-nil error; after Shutdown the error is http.ErrServerClosed.
func (c *Connector) Serve() error {
	c.mu.Lock()
	bound := c.ln != nil
	c.mu.Unlock()

	if !bound {
		if err := c.Bind(); err != nil {
			return err
		}
	}

	return c.srv.Serve(c.ln)
}

// Addr returns the bound address, or nil before Bind.
func (c *Connector) Addr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ln == nil {
		return nil
	}
	return c.ln.Addr()
}

// Port returns the configured port.
func (c *Connector) Port() int {
	return c.port
}

// TLSConfig returns a clone of the connector's TLS configuration for
// inspection.
func (c *Connector) TLSConfig() *tls.Config {
	return c.tlsConfig.Clone()
}

// HTTPConfiguration returns the framing configuration in effect.
func (c *Connector) HTTPConfiguration() *HTTPConfiguration {
	return c.httpConfig
}

// Shutdown gracefully stops the connector, waiting for in-flight
// requests up to the context deadline.
func (c *Connector) Shutdown(ctx context.Context) error {
	return c.srv.Shutdown(ctx)
}

// Close immediately closes the connector's listener and connections.
func (c *Connector) Close() error {
	return c.srv.Close()
}
