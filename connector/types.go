package connector

import (
	"crypto/x509"
)

// CertChainValidator decides whether a peer's certificate chain is
// acceptable during a TLS handshake. It is the sole trust decision
// source for connectors built by this package; the platform's
// CA-pool-based verification is not consulted.
//
// rawCerts holds the DER-encoded certificates presented by the peer,
// leaf first. verifiedChains is always nil since platform
// verification is bypassed. Returning a non-nil error aborts the
// handshake.
//
// Implementations must be safe for concurrent use: the validator is
// invoked from the handshake goroutine of every accepted connection.
type CertChainValidator interface {
	VerifyPeerCertificate(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error
}
