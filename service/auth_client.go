package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/arbit-labs/arbit/core"
	"github.com/arbit-labs/arbit/ports"
)

// AuthClient drives the EIP-712 handshake against the remote auth endpoints.
// The sequence is fixed by the protocol: fetch the challenge, sign it, submit
// the signature. There are no retries; any failure aborts the whole flow.
type AuthClient struct {
	conn     *apiConn
	signer   ports.Signer
	redactor *core.Redactor
	log      *logrus.Logger
}

// NewAuthClient creates a new handshake client.
func NewAuthClient(baseURL, clientID string, httpc *http.Client, signer ports.Signer, log *logrus.Logger) *AuthClient {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuthClient{
		conn:     &apiConn{baseURL: baseURL, clientID: clientID, httpc: httpc},
		signer:   signer,
		redactor: core.NewRedactor(),
		log:      log,
	}
}

// ResolveAddress derives the wallet address from the credential's key and
// checks it against the configured address, before any network call is made.
func (c *AuthClient) ResolveAddress(cred core.Credential) (string, error) {
	derived, err := c.signer.DeriveAddress(cred.PrivateKey)
	if err != nil {
		return "", err
	}
	if cred.Address != "" && !strings.EqualFold(cred.Address, derived) {
		return "", fmt.Errorf("%w: configured address %s does not match key-derived %s",
			core.ErrInvalidKeyFormat, cred.Address, derived)
	}
	return derived, nil
}

// FetchChallenge requests a fresh EIP-712 challenge for the address. The
// returned message is single-use: its embedded timestamp binds the eventual
// signature to this exact challenge.
func (c *AuthClient) FetchChallenge(ctx context.Context, address string) (*core.ChallengeMessage, error) {
	query := url.Values{
		"address":  {address},
		"clientId": {c.conn.clientID},
	}
	body, status, err := c.conn.do(ctx, http.MethodGet, "/auth/eip712-message?"+query.Encode(), nil, "")
	if err != nil {
		return nil, fmt.Errorf("fetch challenge: %w", err)
	}
	if status/100 != 2 {
		return nil, &core.RemoteError{Op: "fetch challenge", Status: status, Body: c.redactor.Clean(string(body)), Err: core.ErrRemoteRejected}
	}

	var msg core.ChallengeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("fetch challenge: decode response: %w", err)
	}
	return &msg, nil
}

// SubmitSignature exchanges a signature for a token pair. timestamp must be
// the value carried by the signed challenge, echoed back untouched; the
// remote rejects missing or mismatched timestamps as replayed logins.
func (c *AuthClient) SubmitSignature(ctx context.Context, address, signature string, timestamp interface{}) (core.TokenPair, error) {
	if !strings.HasPrefix(signature, "0x") {
		signature = "0x" + signature
	}

	details := map[string]interface{}{"signature": signature}
	if timestamp != nil {
		details["timestamp"] = timestamp
	}
	payload := map[string]interface{}{
		"method":   "eip712",
		"address":  address,
		"clientId": c.conn.clientID,
		"details":  details,
	}

	body, status, err := c.conn.do(ctx, http.MethodPost, "/auth/login", payload, "")
	if err != nil {
		return core.TokenPair{}, fmt.Errorf("submit signature: %w", err)
	}
	if status/100 != 2 {
		return core.TokenPair{}, &core.RemoteError{Op: "login", Status: status, Body: c.redactor.Clean(string(body)), Err: core.ErrAuthenticationFailed}
	}
	return decodeTokenPair(body, core.ErrAuthenticationFailed)
}

// Authenticate runs the full handshake with the supplied credential. The
// challenge is signed and submitted as one object; it is never re-fetched
// between steps.
func (c *AuthClient) Authenticate(ctx context.Context, cred core.Credential) (core.TokenPair, error) {
	address, err := c.ResolveAddress(cred)
	if err != nil {
		return core.TokenPair{}, fmt.Errorf("authenticate: %w", err)
	}

	c.log.WithFields(logrus.Fields{"address": address, "client_id": c.conn.clientID}).
		Debug("fetching EIP-712 challenge")
	msg, err := c.FetchChallenge(ctx, address)
	if err != nil {
		return core.TokenPair{}, fmt.Errorf("authenticate: %w", err)
	}
	timestamp := msg.Timestamp()

	signature, err := c.signer.SignTypedData(msg, cred.PrivateKey)
	if err != nil {
		return core.TokenPair{}, fmt.Errorf("authenticate: %w", err)
	}

	pair, err := c.SubmitSignature(ctx, address, signature, timestamp)
	if err != nil {
		return core.TokenPair{}, fmt.Errorf("authenticate: %w", err)
	}

	c.log.WithField("address", address).Info("authenticated with trading API")
	return pair, nil
}

// Refresh exchanges the refresh token for a new pair.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (core.TokenPair, error) {
	payload := map[string]string{"refreshToken": refreshToken}
	body, status, err := c.conn.do(ctx, http.MethodPost, "/auth/refresh-token", payload, "")
	if err != nil {
		return core.TokenPair{}, fmt.Errorf("refresh: %w", err)
	}
	if status/100 != 2 {
		return core.TokenPair{}, &core.RemoteError{Op: "refresh", Status: status, Body: c.redactor.Clean(string(body)), Err: core.ErrRefreshFailed}
	}
	return decodeTokenPair(body, core.ErrRefreshFailed)
}

// Logout invalidates the refresh token server-side. Best effort: failures are
// logged, never raised, since the caller clears its local state regardless.
func (c *AuthClient) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	payload := map[string]string{"refreshToken": refreshToken}
	_, status, err := c.conn.do(ctx, http.MethodPost, "/auth/logout", payload, "")
	if err != nil {
		c.log.WithError(err).Warn("logout call failed")
		return
	}
	if status/100 != 2 {
		c.log.WithField("status", status).Warn("logout rejected by remote")
	}
}

// decodeTokenPair accepts both the camelCase and snake_case field names the
// login and refresh endpoints have been observed to return.
func decodeTokenPair(body []byte, sentinel error) (core.TokenPair, error) {
	var raw struct {
		AccessToken       string `json:"accessToken"`
		RefreshToken      string `json:"refreshToken"`
		AccessTokenSnake  string `json:"access_token"`
		RefreshTokenSnake string `json:"refresh_token"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return core.TokenPair{}, fmt.Errorf("%w: decode token response: %v", sentinel, err)
	}

	pair := core.TokenPair{
		AccessToken:  firstNonEmpty(raw.AccessToken, raw.AccessTokenSnake),
		RefreshToken: firstNonEmpty(raw.RefreshToken, raw.RefreshTokenSnake),
	}
	if pair.Empty() {
		return core.TokenPair{}, fmt.Errorf("%w: response carried no access token", sentinel)
	}
	return pair, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
