package goJWT

import "errors"

var (
	// ErrEngineNotReady is returned by every Engine method called on a nil or closed engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrSigningKeyRequired is returned when Sign is called on an engine built without a signing key.
	ErrSigningKeyRequired = errors.New("signing key required")
	// ErrVerificationKeyRequired is returned when Verify is called on an engine built without a verification key or resolver.
	ErrVerificationKeyRequired = errors.New("verification key required")
	// ErrBuilderUsed is returned by a second call to Builder.Build.
	ErrBuilderUsed = errors.New("builder already used")
)
