package ports

import "github.com/arbit-labs/arbit/core"

// TokenStore owns the current token pair for one client. Implementations are
// safe for concurrent use and keep the pair in process memory only; a restart
// always starts unauthenticated.
type TokenStore interface {
	// Get returns the stored pair and whether one is held.
	Get() (core.TokenPair, bool)

	// Set replaces the stored pair. Subsequent requests use the new access token.
	Set(pair core.TokenPair)

	// Clear drops the stored pair. It does not call the remote logout endpoint.
	Clear()
}
