// Package validator provides a certificate chain validator backed by
// an x509 root pool, usable as the trust decision source for
// connectors.
//
// The package delegates all chain-building and signature checking to
// crypto/x509; it only assembles the verification options. Custom
// validation policies are plugged in by implementing
// connector.CertChainValidator directly.
package validator

import (
	"crypto/x509"
	"fmt"
	"os"
)

// CertPoolValidator validates peer certificate chains against a fixed
// set of trusted roots. It is safe for concurrent use once created.
type CertPoolValidator struct {
	roots *x509.CertPool
}

// NewFromPool returns a validator trusting the given root pool.
func NewFromPool(roots *x509.CertPool) (*CertPoolValidator, error) {
	if roots == nil {
		return nil, fmt.Errorf("root pool cannot be nil")
	}
	return &CertPoolValidator{roots: roots}, nil
}

// NewFromFiles returns a validator trusting the CA certificates found
// in the given PEM bundle files.
func NewFromFiles(caFiles ...string) (*CertPoolValidator, error) {
	if len(caFiles) == 0 {
		return nil, fmt.Errorf("at least one CA bundle file is required")
	}

	roots := x509.NewCertPool()
	for _, caFile := range caFiles {
		pemData, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA bundle %s: %w", caFile, err)
		}
		if !roots.AppendCertsFromPEM(pemData) {
			return nil, fmt.Errorf("no CA certificates found in %s", caFile)
		}
	}

	return &CertPoolValidator{roots: roots}, nil
}

// VerifyPeerCertificate checks that the presented chain leads to one
// of the trusted roots. The leaf comes first in rawCerts; any further
// certificates are used as intermediates. Extended key usage is not
// restricted.
func (v *CertPoolValidator) VerifyPeerCertificate(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("peer presented no certificate")
	}

	leaf, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("failed to parse peer certificate: %w", err)
	}

	intermediates := x509.NewCertPool()
	for _, raw := range rawCerts[1:] {
		cert, err := x509.ParseCertificate(raw)
		if err != nil {
			return fmt.Errorf("failed to parse peer intermediate certificate: %w", err)
		}
		intermediates.AddCert(cert)
	}

	_, err = leaf.Verify(x509.VerifyOptions{
		Roots:         v.roots,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	if err != nil {
		return fmt.Errorf("peer certificate chain rejected: %w", err)
	}
	return nil
}
