package authtoken

import "errors"

var (
	// ErrEmailClaimMissing is an exported constant or variable used by the token engine.
	ErrEmailClaimMissing = errors.New("token does not carry an email claim")
	// ErrStoreUnavailable is an exported constant or variable used by the token engine.
	ErrStoreUnavailable = errors.New("token store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the token engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
