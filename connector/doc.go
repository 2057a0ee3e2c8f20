/*
Package connector builds TLS-terminating network connectors for an
embedded net/http server, with peer certificate chain validation
delegated to an externally supplied validator.

The package does not implement any TLS or HTTP behavior of its own:
the handshake and record layer belong to crypto/tls, HTTP parsing to
net/http, and trust decisions to the CertChainValidator given at
construction time. What the builder contributes is assembly: loading a
PEM certificate/key pair into a key manager, wiring key manager and
validator into a tls.Config, translating protocol/cipher
include-exclude lists and client-auth flags onto it, and deriving a
per-connector HTTP server carrying the framing configuration.

# Usage

A builder is created for one server and one validator, configured
through chained setters, and consumed exactly once by Build:

	builder, err := connector.NewTLSServerConnectorBuilder(srv, validator)
	if err != nil {
		return err
	}

	conn, err := builder.
		WithPort(8443).
		WithCertificateFile("/etc/grid-security/hostcert.pem").
		WithCertificateKeyFile("/etc/grid-security/hostkey.pem").
		WithNeedClientAuth(true).
		Build()

Build performs no network I/O; the returned Connector is bound and
started separately, typically by the owning httpserver.Server.

# Error kinds

Every Build failure wraps one of the package sentinel errors so
callers can classify it with errors.Is:

  - ErrInvalidConfig: a required dependency was nil, or a
    protocol/cipher list cannot be expressed.
  - ErrCredentialAccess: a certificate or key file is missing,
    unreadable, or a directory. The message names the file's role,
    the specific reason, and the absolute path.
  - ErrCredentialFormat: the PEM material could not be parsed, the
    password is wrong, or key and certificate do not match.
  - ErrPlatform: the resolved key manager is structurally unusable.

All causes are configuration or environment defects; none are
transient, and callers are expected to abort setup rather than retry.
*/
package connector
