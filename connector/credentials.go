package connector

import (
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/youmark/pkcs8"
)

// loadCredentials resolves the builder's key manager from the
// configured certificate and key files. Called by Build only when no
// explicit key manager was supplied.
func (b *TLSServerConnectorBuilder) loadCredentials() error {
	if err := checkFileExistsAndIsReadable(b.certificateFile, "error accessing certificate file"); err != nil {
		return err
	}

	if err := checkFileExistsAndIsReadable(b.certificateKeyFile, "error accessing certificate key file"); err != nil {
		return err
	}

	keyManager, err := loadPEMCredential(b.certificateKeyFile, b.certificateFile, b.certificateKeyPassword)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCredentialFormat, err)
	}

	b.keyManager = keyManager
	return nil
}

// checkFileExistsAndIsReadable verifies that the file exists, is not
// a directory, and is readable. The returned error names the failing
// condition and the file's absolute path.
func checkFileExistsAndIsReadable(path, prefix string) error {
	absPath, absErr := filepath.Abs(path)
	if absErr != nil {
		absPath = path
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s: file does not exist [%s]", ErrCredentialAccess, prefix, absPath)
		}
		return fmt.Errorf("%w: %s: %v [%s]", ErrCredentialAccess, prefix, err, absPath)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s: file is a directory [%s]", ErrCredentialAccess, prefix, absPath)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: file is not readable [%s]", ErrCredentialAccess, prefix, absPath)
	}
	f.Close()

	return nil
}

// loadPEMCredential parses a PEM certificate chain and private key
// pair into a tls.Certificate, decrypting the key with password when
// it is protected.
func loadPEMCredential(keyFile, certFile string, password []byte) (*tls.Certificate, error) {
	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}

	keyPEM, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate key file: %w", err)
	}

	chain, err := parseCertificateChain(certPEM)
	if err != nil {
		return nil, err
	}

	key, err := parsePrivateKey(keyPEM, password)
	if err != nil {
		return nil, err
	}

	leaf, err := x509.ParseCertificate(chain[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	if err := keyMatchesCertificate(key, leaf); err != nil {
		return nil, err
	}

	return &tls.Certificate{
		Certificate: chain,
		PrivateKey:  key,
		Leaf:        leaf,
	}, nil
}

// parseCertificateChain collects all CERTIFICATE blocks from the PEM
// data, leaf first.
func parseCertificateChain(certPEM []byte) ([][]byte, error) {
	var chain [][]byte
	rest := certPEM
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type == "CERTIFICATE" {
			chain = append(chain, block.Bytes)
		}
	}

	if len(chain) == 0 {
		return nil, fmt.Errorf("no CERTIFICATE block found in certificate file")
	}
	return chain, nil
}

// parsePrivateKey locates the private key block in the PEM data and
// parses it, handling both legacy DEK-Info encryption and encrypted
// PKCS#8 containers when a password is given.
func parsePrivateKey(keyPEM, password []byte) (crypto.PrivateKey, error) {
	rest := keyPEM
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, fmt.Errorf("no private key block found in certificate key file")
		}

		switch {
		case block.Type == "ENCRYPTED PRIVATE KEY":
			if len(password) == 0 {
				return nil, fmt.Errorf("private key is encrypted and no password was given")
			}
			key, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, password)
			if err != nil {
				return nil, fmt.Errorf("failed to decrypt private key: %w", err)
			}
			return key, nil

		case block.Type == "PRIVATE KEY" || block.Type == "RSA PRIVATE KEY" || block.Type == "EC PRIVATE KEY":
			der := block.Bytes
			if x509.IsEncryptedPEMBlock(block) {
				if len(password) == 0 {
					return nil, fmt.Errorf("private key is encrypted and no password was given")
				}
				decrypted, err := x509.DecryptPEMBlock(block, password)
				if err != nil {
					return nil, fmt.Errorf("failed to decrypt private key: %w", err)
				}
				der = decrypted
			}
			return parsePrivateKeyDER(der)
		}
	}
}

// parsePrivateKeyDER tries the PKCS#8, PKCS#1 and SEC1 encodings in
// turn, in the same spirit as tls.X509KeyPair.
func parsePrivateKeyDER(der []byte) (crypto.PrivateKey, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, fmt.Errorf("failed to parse private key: unsupported key encoding")
}

// keyMatchesCertificate verifies the private key corresponds to the
// certificate's public key.
func keyMatchesCertificate(key crypto.PrivateKey, cert *x509.Certificate) error {
	signer, ok := key.(interface{ Public() crypto.PublicKey })
	if !ok {
		return fmt.Errorf("unsupported private key type %T", key)
	}

	pub, ok := cert.PublicKey.(interface{ Equal(crypto.PublicKey) bool })
	if !ok {
		return fmt.Errorf("unsupported certificate public key type %T", cert.PublicKey)
	}

	if !pub.Equal(signer.Public()) {
		return fmt.Errorf("private key does not match certificate")
	}
	return nil
}
