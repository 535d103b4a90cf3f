package core

import (
	"bytes"
	"encoding/json"
	"strings"
)

// WalletStatus classifies the remote agent wallet record.
type WalletStatus string

const (
	// WalletAbsent means the remote has no wallet record (404 or empty response).
	WalletAbsent WalletStatus = "absent"
	// WalletUnapproved means the record exists but came back as an empty
	// object, which empirically means it awaits approval.
	WalletUnapproved WalletStatus = "unapproved"
	// WalletApproved means the record carries an approval indicator.
	WalletApproved WalletStatus = "approved"
	// WalletUnknown means the record is populated but carries no recognized
	// approval indicator.
	WalletUnknown WalletStatus = "unknown"
)

// AgentWalletState is the externally owned delegated-signing wallet record.
// Read-only from this system's perspective except for creation.
type AgentWalletState struct {
	Status  WalletStatus           `json:"status"`
	Address string                 `json:"address,omitempty"`
	Raw     map[string]interface{} `json:"raw,omitempty"`
}

// Empty reports whether no usable wallet record exists. An empty record is
// the trigger for the degraded diagnostic trade.
func (s AgentWalletState) Empty() bool {
	return s.Status == WalletAbsent || s.Status == WalletUnapproved
}

// ParseAgentWallet maps a 2xx agent wallet response body onto a state. The
// caller handles 404 separately as WalletAbsent.
func ParseAgentWallet(body []byte) AgentWalletState {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return AgentWalletState{Status: WalletUnapproved}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return AgentWalletState{Status: WalletUnknown}
	}
	if len(raw) == 0 {
		return AgentWalletState{Status: WalletUnapproved}
	}

	state := AgentWalletState{Status: WalletUnknown, Raw: raw}
	if addr, ok := raw["address"].(string); ok {
		state.Address = addr
	} else if addr, ok := raw["agentAddress"].(string); ok {
		state.Address = addr
	}

	if approved, ok := raw["isApproved"].(bool); ok && approved {
		state.Status = WalletApproved
		return state
	}
	if status, ok := raw["status"].(string); ok {
		switch strings.ToUpper(status) {
		case "APPROVED", "ACTIVE":
			state.Status = WalletApproved
		}
	}
	return state
}
