package ports

import "github.com/arbit-labs/arbit/core"

// Signer produces EIP-712 signatures for the automated authentication flow.
type Signer interface {
	// DeriveAddress recovers the checksummed wallet address for a private key.
	DeriveAddress(privateKey string) (string, error)

	// SignTypedData signs the challenge exactly as received and returns a
	// 0x-prefixed hex signature. Deterministic for identical message and key.
	SignTypedData(message *core.ChallengeMessage, privateKey string) (string, error)
}
