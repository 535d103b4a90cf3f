package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKeyFormat is returned when a private key cannot be parsed or
	// does not match the configured wallet address.
	ErrInvalidKeyFormat = errors.New("invalid private key")

	// ErrSigningFailed is returned when an EIP-712 message cannot be hashed or signed.
	ErrSigningFailed = errors.New("typed data signing failed")

	// ErrRemoteUnavailable is returned on network-level failures reaching the remote API.
	ErrRemoteUnavailable = errors.New("remote API unreachable")

	// ErrRemoteRejected is returned when the remote API answers with an
	// unexpected non-2xx status.
	ErrRemoteRejected = errors.New("remote API rejected the request")

	// ErrAuthenticationFailed is returned when the login step of the handshake fails.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrRefreshFailed is returned when the token refresh call fails. The
	// previously stored pair is left untouched.
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrAgentWalletCreationFailed is returned when the agent wallet creation call fails.
	ErrAgentWalletCreationFailed = errors.New("agent wallet creation failed")

	// ErrTradeExecutionFailed is returned when the positions endpoint rejects an order.
	ErrTradeExecutionFailed = errors.New("trade execution failed")

	// ErrInvalidBasket is returned when both sides of a basket are empty.
	ErrInvalidBasket = errors.New("at least one of long or short assets must be provided")

	// ErrWeightSumInvalid is returned when a non-empty side's weights do not
	// sum to 1.0 within WeightTolerance.
	ErrWeightSumInvalid = errors.New("basket weights must sum to 1.0")

	// ErrMissingCredential is returned when authentication is required but no
	// wallet private key is configured.
	ErrMissingCredential = errors.New("wallet private key is not configured")

	// ErrNeedsApproval means the agent wallet exists but the out-of-band
	// approval step has not been completed. Non-fatal: trading becomes
	// possible once the wallet is approved.
	ErrNeedsApproval = errors.New("agent wallet exists but needs approval")
)

// RemoteError carries the status code and response body of a rejected remote
// call. Body must be redacted before construction; Error output may reach
// external callers.
type RemoteError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v: status %d: %s", e.Op, e.Err, e.Status, e.Body)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// TradeError is a failed trade execution with the outbound order attached so
// the failure can be diagnosed without re-sending it. Body must be redacted
// before construction.
type TradeError struct {
	Status int
	Body   string
	Order  OrderRequest
	Err    error
}

func (e *TradeError) Error() string {
	return fmt.Sprintf("%v: status %d: %s", e.Err, e.Status, e.Body)
}

func (e *TradeError) Unwrap() error { return e.Err }
