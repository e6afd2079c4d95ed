package session

import "errors"

var (
	// ErrUnsupportedStore indicates Adapt was given a value that satisfies
	// neither the Store nor the CallbackStore contract
	ErrUnsupportedStore = errors.New("session.unsupported_store")

	// ErrNoSecret indicates NewSignedCodec was called without a usable secret
	ErrNoSecret = errors.New("session.no_secret")

	// ErrInvalidSignature indicates an identifier failed signature verification
	ErrInvalidSignature = errors.New("session.invalid_signature")
)
