package connector

import "errors"

// Sentinel error kinds returned (wrapped) by the builder. See the
// package documentation for the taxonomy.
var (
	// ErrInvalidConfig marks a misconfigured builder: a nil required
	// dependency or an inexpressible protocol/cipher override.
	ErrInvalidConfig = errors.New("invalid connector configuration")

	// ErrCredentialAccess marks a certificate or key file that is
	// missing, unreadable, or a directory.
	ErrCredentialAccess = errors.New("error accessing credentials")

	// ErrCredentialFormat marks PEM material that could not be parsed
	// or decrypted, or a key that does not match its certificate.
	ErrCredentialFormat = errors.New("error setting up service credentials")

	// ErrPlatform marks a structurally unusable key manager set. It
	// indicates a deployment defect, not a transient failure.
	ErrPlatform = errors.New("TLS context setup failed")
)
