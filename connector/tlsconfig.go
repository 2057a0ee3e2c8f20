package connector

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
)

// protocolVersions maps JSSE-style protocol names onto crypto/tls
// version constants.
var protocolVersions = map[string]uint16{
	"TLSv1":   tls.VersionTLS10,
	"TLSv1.0": tls.VersionTLS10,
	"TLSv1.1": tls.VersionTLS11,
	"TLSv1.2": tls.VersionTLS12,
	"TLSv1.3": tls.VersionTLS13,
}

// candidateVersions is the full ordered set protocol overrides are
// resolved against.
var candidateVersions = []uint16{
	tls.VersionTLS10,
	tls.VersionTLS11,
	tls.VersionTLS12,
	tls.VersionTLS13,
}

// buildTLSConfig wires the key manager and the certificate validator
// into a tls.Config and applies the protocol, cipher and client-auth
// settings onto it.
func (b *TLSServerConnectorBuilder) buildTLSConfig() (*tls.Config, error) {
	km := b.keyManager
	if km == nil || len(km.Certificate) == 0 || km.PrivateKey == nil {
		return nil, fmt.Errorf("%w: key manager carries no usable credential", ErrPlatform)
	}

	validator := b.certificateValidator
	needClientAuth := b.tlsNeedClientAuth

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{*km},
		NextProtos:   []string{"http/1.1"},

		// The validator is the sole trust decision source. Platform
		// CA-pool verification stays out of the picture, so client
		// chains reach the callback unfiltered.
		ClientAuth: clientAuthType(needClientAuth, b.tlsWantClientAuth),
		VerifyPeerCertificate: func(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error {
			if len(rawCerts) == 0 && !needClientAuth {
				return nil
			}
			return validator.VerifyPeerCertificate(rawCerts, verifiedChains)
		},
	}

	if err := applyProtocolLists(tlsConfig, b.includeProtocols, b.excludeProtocols); err != nil {
		return nil, err
	}

	if err := applyCipherSuiteLists(tlsConfig, b.includeCipherSuites, b.excludeCipherSuites); err != nil {
		return nil, err
	}

	return tlsConfig, nil
}

// clientAuthType maps the want/need flags onto a tls.ClientAuthType.
// The flags are applied independently, need taking precedence. The
// Require/VerifyIfGiven modes that consult ClientCAs are not used,
// since chain acceptance belongs to the validator.
func clientAuthType(need, want bool) tls.ClientAuthType {
	switch {
	case need:
		return tls.RequireAnyClientCert
	case want:
		return tls.RequestClientCert
	default:
		return tls.NoClientCert
	}
}

// applyProtocolLists resolves the include/exclude protocol lists onto
// the config's MinVersion/MaxVersion. A nil include and nil exclude
// leaves the platform default untouched. crypto/tls expresses the
// enabled versions as one contiguous range, so a resolution with a
// hole in it is rejected rather than silently widened.
func applyProtocolLists(tlsConfig *tls.Config, include, exclude []string) error {
	if include == nil && exclude == nil {
		return nil
	}

	enabled := make(map[uint16]bool, len(candidateVersions))
	if include != nil {
		for _, name := range include {
			version, ok := protocolVersions[name]
			if !ok {
				return fmt.Errorf("%w: unknown protocol %q", ErrInvalidConfig, name)
			}
			enabled[version] = true
		}
	} else {
		for _, version := range candidateVersions {
			enabled[version] = true
		}
	}

	for _, name := range exclude {
		version, ok := protocolVersions[name]
		if !ok {
			return fmt.Errorf("%w: unknown protocol %q", ErrInvalidConfig, name)
		}
		delete(enabled, version)
	}

	if len(enabled) == 0 {
		// An empty override disables every version: the range below
		// is unsatisfiable, so crypto/tls fails each handshake with
		// "no supported versions".
		tlsConfig.MinVersion = tls.VersionTLS13
		tlsConfig.MaxVersion = tls.VersionTLS10
		return nil
	}

	var min, max uint16
	for _, version := range candidateVersions {
		if !enabled[version] {
			continue
		}
		if min == 0 {
			min = version
		}
		max = version
	}

	for _, version := range candidateVersions {
		if version > min && version < max && !enabled[version] {
			return fmt.Errorf("%w: protocol selection is not a contiguous version range", ErrInvalidConfig)
		}
	}

	tlsConfig.MinVersion = min
	tlsConfig.MaxVersion = max
	return nil
}

// applyCipherSuiteLists resolves the include/exclude cipher suite
// lists onto the config. A nil include and nil exclude leaves the
// platform default untouched; an include list is applied in the given
// order; an exclude list filters the platform default set. Suite
// names follow the IANA names reported by tls.CipherSuites.
func applyCipherSuiteLists(tlsConfig *tls.Config, include, exclude []string) error {
	if include == nil && exclude == nil {
		return nil
	}

	excluded := make(map[uint16]bool, len(exclude))
	for _, name := range exclude {
		id, ok := cipherSuiteID(name)
		if !ok {
			return fmt.Errorf("%w: unknown cipher suite %q", ErrInvalidConfig, name)
		}
		excluded[id] = true
	}

	var selected []uint16
	if include != nil {
		selected = make([]uint16, 0, len(include))
		for _, name := range include {
			id, ok := cipherSuiteID(name)
			if !ok {
				return fmt.Errorf("%w: unknown cipher suite %q", ErrInvalidConfig, name)
			}
			if !excluded[id] {
				selected = append(selected, id)
			}
		}
	} else {
		defaults := tls.CipherSuites()
		selected = make([]uint16, 0, len(defaults))
		for _, suite := range defaults {
			if !excluded[suite.ID] {
				selected = append(selected, suite.ID)
			}
		}
	}

	// An empty non-nil selection is passed through as-is; crypto/tls
	// then finds no common suite for TLS 1.2 and below.
	tlsConfig.CipherSuites = selected
	return nil
}

// cipherSuiteID looks a suite up by name among both the secure and
// the legacy suites known to crypto/tls.
func cipherSuiteID(name string) (uint16, bool) {
	for _, suite := range tls.CipherSuites() {
		if suite.Name == name {
			return suite.ID, true
		}
	}
	for _, suite := range tls.InsecureCipherSuites() {
		if suite.Name == name {
			return suite.ID, true
		}
	}
	return 0, false
}
