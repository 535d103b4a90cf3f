package core

import "encoding/json"

// ChallengeMessage is the EIP-712 typed payload returned by the auth endpoint
// for a given address and client ID. It must be signed exactly as received:
// the remote binds the challenge to its embedded timestamp, so a re-fetched
// message invalidates any signature produced over an earlier one. Each
// message is single-use.
type ChallengeMessage struct {
	Domain      json.RawMessage        `json:"domain"`
	Types       json.RawMessage        `json:"types"`
	PrimaryType string                 `json:"primaryType,omitempty"`
	Message     map[string]interface{} `json:"message"`
}

// Timestamp returns the replay-protection timestamp embedded in the message,
// or nil when the remote did not include one. The value is kept opaque so it
// can be echoed back to the login endpoint untouched.
func (m *ChallengeMessage) Timestamp() interface{} {
	if m == nil || m.Message == nil {
		return nil
	}
	ts, ok := m.Message["timestamp"]
	if !ok {
		return nil
	}
	return ts
}
