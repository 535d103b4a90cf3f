package service

import (
	"strings"

	"github.com/arbit-labs/arbit/core"
)

// conditionRule maps a fragment of a remote error body to the condition it
// has been observed to mean. The remote API's error bodies are undocumented,
// so this coupling to exact wording is kept in one place and matched in
// priority order.
type conditionRule struct {
	fragment  string
	condition error
}

var conditionRules = []conditionRule{
	// An empty-body rejection on wallet creation means the wallet already
	// exists but has not been approved.
	{fragment: "Body cannot be empty when content-type", condition: core.ErrNeedsApproval},
}

// inferRemoteCondition returns the recognized condition for a response body,
// or nil when no rule matches.
func inferRemoteCondition(body []byte) error {
	text := string(body)
	for _, rule := range conditionRules {
		if strings.Contains(text, rule.fragment) {
			return rule.condition
		}
	}
	return nil
}
