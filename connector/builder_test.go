package connector

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// acceptAllValidator accepts any peer chain; tests that exercise the
// builder rather than trust decisions use it as a stand-in.
type acceptAllValidator struct{}

func (acceptAllValidator) VerifyPeerCertificate([][]byte, [][]*x509.Certificate) error {
	return nil
}

func newTestBuilder(t *testing.T) *TLSServerConnectorBuilder {
	t.Helper()

	builder, err := NewTLSServerConnectorBuilder(&http.Server{}, acceptAllValidator{})
	require.NoError(t, err)
	return builder
}

func newBuilderWithCredentials(t *testing.T) *TLSServerConnectorBuilder {
	t.Helper()

	ca := newTestCA(t)
	certPEM, keyPEM := ca.issue(t, "test server")
	certFile, keyFile := writeCredentialFiles(t, certPEM, keyPEM)

	return newTestBuilder(t).
		WithCertificateFile(certFile).
		WithCertificateKeyFile(keyFile)
}

func TestNewBuilder_NilServer(t *testing.T) {
	builder, err := NewTLSServerConnectorBuilder(nil, acceptAllValidator{})
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, builder)
	assert.Contains(t, err.Error(), "server")
}

func TestNewBuilder_NilValidator(t *testing.T) {
	builder, err := NewTLSServerConnectorBuilder(&http.Server{}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, builder)
	assert.Contains(t, err.Error(), "validator")
}

func TestBuild_DefaultFraming(t *testing.T) {
	conn, err := newBuilderWithCredentials(t).WithPort(9443).Build()
	require.NoError(t, err)

	hc := conn.HTTPConfiguration()
	assert.Equal(t, "https", hc.SecureScheme)
	assert.Equal(t, 9443, hc.SecurePort)
	assert.Equal(t, 32768, hc.OutputBufferSize)
	assert.Equal(t, 8192, hc.RequestHeaderSize)
	assert.Equal(t, 8192, hc.ResponseHeaderSize)
	assert.True(t, hc.SendServerVersion)
	assert.False(t, hc.SendDateHeader)
	assert.True(t, hc.SecureRequestCustomizer)
}

func TestBuild_ExplicitFramingKept(t *testing.T) {
	hc := &HTTPConfiguration{
		SecureScheme:      "https",
		SecurePort:        443,
		OutputBufferSize:  1024,
		RequestHeaderSize: 4096,
	}

	conn, err := newBuilderWithCredentials(t).WithHTTPConfiguration(hc).Build()
	require.NoError(t, err)
	assert.Same(t, hc, conn.HTTPConfiguration())
}

func TestBuilder_HTTPConfigurationLazyDefault(t *testing.T) {
	builder := newTestBuilder(t).WithPort(8443)

	hc := builder.HTTPConfiguration()
	require.NotNil(t, hc)
	assert.Equal(t, 8443, hc.SecurePort)

	// Repeated access returns the same instance, and Build consumes it.
	assert.Same(t, hc, builder.HTTPConfiguration())
}

func TestBuild_SetterLastWins(t *testing.T) {
	conn, err := newBuilderWithCredentials(t).
		WithPort(1111).
		WithPort(4443).
		Build()
	require.NoError(t, err)
	assert.Equal(t, 4443, conn.Port())
}

func TestBuild_ExplicitKeyManagerSkipsFileAccess(t *testing.T) {
	ca := newTestCA(t)
	certPEM, keyPEM := ca.issue(t, "test server")
	km, err := tls.X509KeyPair(certPEM, keyPEM)
	require.NoError(t, err)

	// File paths point nowhere; with an explicit key manager the
	// file checks must not run at all.
	conn, buildErr := newTestBuilder(t).
		WithCertificateFile("/nonexistent/cert.pem").
		WithCertificateKeyFile("/nonexistent/key.pem").
		WithKeyManager(&km).
		Build()
	require.NoError(t, buildErr)
	require.NotNil(t, conn)

	cfg := conn.TLSConfig()
	require.Len(t, cfg.Certificates, 1)
}

func TestBuild_ClientAuthMapping(t *testing.T) {
	tests := []struct {
		name string
		need bool
		want bool
		mode tls.ClientAuthType
	}{
		{"need only", true, false, tls.RequireAnyClientCert},
		{"want only", false, true, tls.RequestClientCert},
		{"neither", false, false, tls.NoClientCert},
		{"both set, need wins", true, true, tls.RequireAnyClientCert},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := newBuilderWithCredentials(t).
				WithNeedClientAuth(tt.need).
				WithWantClientAuth(tt.want).
				Build()
			require.NoError(t, err)
			assert.Equal(t, tt.mode, conn.TLSConfig().ClientAuth)
		})
	}
}

func TestBuild_WantClientAuthDefaultsTrue(t *testing.T) {
	conn, err := newBuilderWithCredentials(t).Build()
	require.NoError(t, err)
	assert.Equal(t, tls.RequestClientCert, conn.TLSConfig().ClientAuth)
}

func TestBuild_ProtocolListsUnsetKeepsDefaults(t *testing.T) {
	conn, err := newBuilderWithCredentials(t).Build()
	require.NoError(t, err)

	cfg := conn.TLSConfig()
	assert.Zero(t, cfg.MinVersion)
	assert.Zero(t, cfg.MaxVersion)
	assert.Nil(t, cfg.CipherSuites)
}

func TestBuild_IncludeProtocols(t *testing.T) {
	conn, err := newBuilderWithCredentials(t).
		WithIncludeProtocols("TLSv1.2", "TLSv1.3").
		Build()
	require.NoError(t, err)

	cfg := conn.TLSConfig()
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.Equal(t, uint16(tls.VersionTLS13), cfg.MaxVersion)
}

func TestBuild_ExcludeProtocols(t *testing.T) {
	conn, err := newBuilderWithCredentials(t).
		WithExcludeProtocols("TLSv1", "TLSv1.1").
		Build()
	require.NoError(t, err)

	cfg := conn.TLSConfig()
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.Equal(t, uint16(tls.VersionTLS13), cfg.MaxVersion)
}

func TestBuild_EmptyIncludeProtocolsDisablesAll(t *testing.T) {
	conn, err := newBuilderWithCredentials(t).
		WithIncludeProtocols().
		Build()
	require.NoError(t, err)

	// The override is passed through as an unsatisfiable range; every
	// handshake fails down in crypto/tls.
	cfg := conn.TLSConfig()
	assert.Greater(t, cfg.MinVersion, cfg.MaxVersion)
}

func TestBuild_NonContiguousProtocolsRejected(t *testing.T) {
	_, err := newBuilderWithCredentials(t).
		WithIncludeProtocols("TLSv1", "TLSv1.3").
		Build()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "contiguous")
}

func TestBuild_UnknownProtocolRejected(t *testing.T) {
	_, err := newBuilderWithCredentials(t).
		WithIncludeProtocols("SSLv3").
		Build()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "SSLv3")
}

func TestBuild_IncludeCipherSuites(t *testing.T) {
	conn, err := newBuilderWithCredentials(t).
		WithIncludeCipherSuites(
			"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256",
			"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256",
		).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []uint16{
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	}, conn.TLSConfig().CipherSuites)
}

func TestBuild_ExcludeCipherSuites(t *testing.T) {
	conn, err := newBuilderWithCredentials(t).
		WithExcludeCipherSuites("TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256").
		Build()
	require.NoError(t, err)

	cfg := conn.TLSConfig()
	require.NotNil(t, cfg.CipherSuites)
	assert.NotContains(t, cfg.CipherSuites, uint16(tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256))
	assert.NotEmpty(t, cfg.CipherSuites)
}

func TestBuild_EmptyIncludeCipherSuites(t *testing.T) {
	conn, err := newBuilderWithCredentials(t).
		WithIncludeCipherSuites().
		Build()
	require.NoError(t, err)

	cfg := conn.TLSConfig()
	require.NotNil(t, cfg.CipherSuites)
	assert.Empty(t, cfg.CipherSuites)
}

func TestBuild_UnknownCipherSuiteRejected(t *testing.T) {
	_, err := newBuilderWithCredentials(t).
		WithIncludeCipherSuites("TLS_NOT_A_REAL_SUITE").
		Build()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "TLS_NOT_A_REAL_SUITE")
}

func TestBuild_NextProtosHTTP11(t *testing.T) {
	conn, err := newBuilderWithCredentials(t).Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"http/1.1"}, conn.TLSConfig().NextProtos)
}
