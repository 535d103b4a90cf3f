package core

import (
	"regexp"
	"strings"
	"sync"
)

const redactedPlaceholder = "[REDACTED]"

// markerPattern catches key/value fragments whose key names sensitive
// material, so values this process never saw (an API key quoted back by the
// remote, for instance) are still masked.
var markerPattern = regexp.MustCompile(`(?i)(api[ _-]?key|secret|token)(["':=\s]+)[A-Za-z0-9._\-]{8,}`)

// Redactor strips secret values from text destined for external callers.
// Known secrets are registered as they are learned (private key at
// configuration, tokens after each handshake). Safe for concurrent use.
type Redactor struct {
	mu      sync.RWMutex
	secrets []string
}

// NewRedactor creates a redactor seeded with any known secrets.
func NewRedactor(secrets ...string) *Redactor {
	r := &Redactor{}
	for _, s := range secrets {
		r.Add(s)
	}
	return r
}

// Add registers a secret value to be masked. Empty values are ignored.
func (r *Redactor) Add(secret string) {
	if secret == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secrets = append(r.secrets, secret)
}

// Clean replaces every registered secret and any marker-labelled value with a
// placeholder.
func (r *Redactor) Clean(s string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, secret := range r.secrets {
		s = strings.ReplaceAll(s, secret, redactedPlaceholder)
	}
	return markerPattern.ReplaceAllString(s, "${1}${2}"+redactedPlaceholder)
}
