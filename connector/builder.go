package connector

import (
	"crypto/tls"
	"fmt"
	"net/http"
)

// Default service credential locations.
const (
	// DefaultCertificateFile is the default service certificate file.
	DefaultCertificateFile = "/etc/grid-security/hostcert.pem"

	// DefaultCertificateKeyFile is the default service certificate
	// private key file.
	DefaultCertificateKeyFile = "/etc/grid-security/hostcert.pem"
)

// TLSServerConnectorBuilder assembles a TLS connector for an
// *http.Server, integrating an external CertChainValidator as the
// trust decision source.
//
// A builder belongs to exactly one server/validator pair, accumulates
// configuration through chained setters (each stores its value
// verbatim, last call wins), and is consumed by Build. Builders are
// not safe for concurrent use.
type TLSServerConnectorBuilder struct {
	port                   int
	certificateFile        string
	certificateKeyFile     string
	certificateKeyPassword []byte

	certificateValidator CertChainValidator

	tlsNeedClientAuth bool
	tlsWantClientAuth bool

	includeProtocols    []string
	excludeProtocols    []string
	includeCipherSuites []string
	excludeCipherSuites []string

	httpConfiguration *HTTPConfiguration
	keyManager        *tls.Certificate

	server *http.Server
}

// NewTLSServerConnectorBuilder returns a builder for the given server
// and certificate validator. Both are required; a nil value yields
// ErrInvalidConfig immediately.
func NewTLSServerConnectorBuilder(server *http.Server, certificateValidator CertChainValidator) (*TLSServerConnectorBuilder, error) {
	if server == nil {
		return nil, fmt.Errorf("%w: server cannot be nil", ErrInvalidConfig)
	}

	if certificateValidator == nil {
		return nil, fmt.Errorf("%w: certificate validator cannot be nil", ErrInvalidConfig)
	}

	return &TLSServerConnectorBuilder{
		certificateFile:      DefaultCertificateFile,
		certificateKeyFile:   DefaultCertificateKeyFile,
		certificateValidator: certificateValidator,
		tlsWantClientAuth:    true,
		server:               server,
	}, nil
}

// WithPort sets the port the connector binds to.
func (b *TLSServerConnectorBuilder) WithPort(port int) *TLSServerConnectorBuilder {
	b.port = port
	return b
}

// WithCertificateFile sets the service certificate file.
func (b *TLSServerConnectorBuilder) WithCertificateFile(certificateFile string) *TLSServerConnectorBuilder {
	b.certificateFile = certificateFile
	return b
}

// WithCertificateKeyFile sets the service certificate private key file.
func (b *TLSServerConnectorBuilder) WithCertificateKeyFile(certificateKeyFile string) *TLSServerConnectorBuilder {
	b.certificateKeyFile = certificateKeyFile
	return b
}

// WithCertificateKeyPassword sets the password used to decrypt the
// private key file. Leave unset for unencrypted keys.
func (b *TLSServerConnectorBuilder) WithCertificateKeyPassword(certificateKeyPassword []byte) *TLSServerConnectorBuilder {
	b.certificateKeyPassword = certificateKeyPassword
	return b
}

// WithNeedClientAuth sets whether a client certificate is required.
// When both need and want are set, need wins at the TLS layer; the
// two flags are not cross-validated.
func (b *TLSServerConnectorBuilder) WithNeedClientAuth(needClientAuth bool) *TLSServerConnectorBuilder {
	b.tlsNeedClientAuth = needClientAuth
	return b
}

// WithWantClientAuth sets whether a client certificate is requested
// but optional. Defaults to true.
func (b *TLSServerConnectorBuilder) WithWantClientAuth(wantClientAuth bool) *TLSServerConnectorBuilder {
	b.tlsWantClientAuth = wantClientAuth
	return b
}

// WithIncludeProtocols restricts the enabled TLS protocol versions to
// the named ones (e.g. "TLSv1.2", "TLSv1.3"). Leaving the setter
// uncalled keeps the platform default; calling it with no names
// disables every version, so all handshakes fail.
func (b *TLSServerConnectorBuilder) WithIncludeProtocols(includeProtocols ...string) *TLSServerConnectorBuilder {
	b.includeProtocols = append([]string{}, includeProtocols...)
	return b
}

// WithExcludeProtocols disables the named TLS protocol versions.
func (b *TLSServerConnectorBuilder) WithExcludeProtocols(excludeProtocols ...string) *TLSServerConnectorBuilder {
	b.excludeProtocols = append([]string{}, excludeProtocols...)
	return b
}

// WithIncludeCipherSuites restricts the enabled cipher suites to the
// named ones, in the given order. Leaving the setter uncalled keeps
// the platform default; calling it with no names disables every
// suite. Per crypto/tls, cipher suite overrides apply to TLS 1.2 and
// below only.
func (b *TLSServerConnectorBuilder) WithIncludeCipherSuites(includeCipherSuites ...string) *TLSServerConnectorBuilder {
	b.includeCipherSuites = append([]string{}, includeCipherSuites...)
	return b
}

// WithExcludeCipherSuites disables the named cipher suites.
func (b *TLSServerConnectorBuilder) WithExcludeCipherSuites(excludeCipherSuites ...string) *TLSServerConnectorBuilder {
	b.excludeCipherSuites = append([]string{}, excludeCipherSuites...)
	return b
}

// WithHTTPConfiguration sets the HTTP framing configuration for the
// connector being built.
func (b *TLSServerConnectorBuilder) WithHTTPConfiguration(conf *HTTPConfiguration) *TLSServerConnectorBuilder {
	b.httpConfiguration = conf
	return b
}

// WithKeyManager sets a pre-built credential for the connector being
// built. When set, the certificate and key files are neither checked
// nor read.
func (b *TLSServerConnectorBuilder) WithKeyManager(keyManager *tls.Certificate) *TLSServerConnectorBuilder {
	b.keyManager = keyManager
	return b
}

// HTTPConfiguration gives access to the framing configuration used
// for the connector being created, creating the default one if none
// was set. Not safe for concurrent use.
func (b *TLSServerConnectorBuilder) HTTPConfiguration() *HTTPConfiguration {
	if b.httpConfiguration == nil {
		b.httpConfiguration = DefaultHTTPConfiguration(b.port)
	}
	return b.httpConfiguration
}

// Build assembles the connector. It runs a single fail-fast pass:
// credential loading (unless a key manager was supplied), TLS context
// assembly, protocol/cipher/client-auth configuration, and framing
// defaulting. The returned connector is not yet bound; Build performs
// no network I/O.
func (b *TLSServerConnectorBuilder) Build() (*Connector, error) {
	if b.keyManager == nil {
		if err := b.loadCredentials(); err != nil {
			return nil, err
		}
	}

	tlsConfig, err := b.buildTLSConfig()
	if err != nil {
		return nil, err
	}

	if b.httpConfiguration == nil {
		b.httpConfiguration = DefaultHTTPConfiguration(b.port)
	}

	return newConnector(b.server, b.port, tlsConfig, b.httpConfiguration), nil
}
