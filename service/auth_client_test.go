package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbit-labs/arbit/adapters/signer"
	"github.com/arbit-labs/arbit/core"
)

// Well-known development key, never used with real funds.
const (
	testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func challengeJSON(timestamp int64) map[string]interface{} {
	return map[string]interface{}{
		"domain": map[string]interface{}{
			"name":              "Pear Protocol",
			"version":           "1",
			"chainId":           42161,
			"verifyingContract": "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC",
		},
		"types": map[string]interface{}{
			"EIP712Domain": []map[string]string{
				{"name": "name", "type": "string"},
				{"name": "version", "type": "string"},
				{"name": "chainId", "type": "uint256"},
				{"name": "verifyingContract", "type": "address"},
			},
			"Login": []map[string]string{
				{"name": "address", "type": "address"},
				{"name": "timestamp", "type": "uint256"},
			},
		},
		"primaryType": "Login",
		"message": map[string]interface{}{
			"address":   testAddress,
			"timestamp": timestamp,
		},
	}
}

func TestAuthenticateHandshake(t *testing.T) {
	const ts = int64(1700000000)
	var loginPayload map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/eip712-message", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAddress, r.URL.Query().Get("address"))
		assert.Equal(t, "APITRADER", r.URL.Query().Get("clientId"))
		assert.Equal(t, "APITRADER", r.Header.Get("X-Client-Id"))
		json.NewEncoder(w).Encode(challengeJSON(ts))
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&loginPayload))
		json.NewEncoder(w).Encode(map[string]string{
			"accessToken":  "access-token-value",
			"refreshToken": "refresh-token-value",
		})
	})
	remote := httptest.NewServer(mux)
	defer remote.Close()

	auth := NewAuthClient(remote.URL, "APITRADER", remote.Client(), signer.New(), nil)
	pair, err := auth.Authenticate(context.Background(), core.Credential{PrivateKey: testPrivateKey})
	require.NoError(t, err)
	assert.Equal(t, "access-token-value", pair.AccessToken)
	assert.Equal(t, "refresh-token-value", pair.RefreshToken)

	// The login payload mirrors the challenge: same address, the challenge's
	// own timestamp echoed back, and a 0x-prefixed signature.
	assert.Equal(t, "eip712", loginPayload["method"])
	assert.Equal(t, testAddress, loginPayload["address"])
	assert.Equal(t, "APITRADER", loginPayload["clientId"])
	details, ok := loginPayload["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(ts), details["timestamp"])
	sig, _ := details["signature"].(string)
	assert.Regexp(t, `^0x[0-9a-f]{130}$`, sig)
}

func TestAuthenticateAddressMismatchFailsBeforeNetwork(t *testing.T) {
	calls := 0
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer remote.Close()

	auth := NewAuthClient(remote.URL, "APITRADER", remote.Client(), signer.New(), nil)
	_, err := auth.Authenticate(context.Background(), core.Credential{
		Address:    "0x0000000000000000000000000000000000000001",
		PrivateKey: testPrivateKey,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidKeyFormat))
	assert.Zero(t, calls)
}

func TestSubmitSignatureSnakeCaseResponse(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "snake-access",
			"refresh_token": "snake-refresh",
		})
	}))
	defer remote.Close()

	auth := NewAuthClient(remote.URL, "APITRADER", remote.Client(), signer.New(), nil)
	pair, err := auth.SubmitSignature(context.Background(), testAddress, "deadbeef", nil)
	require.NoError(t, err)
	assert.Equal(t, "snake-access", pair.AccessToken)
	assert.Equal(t, "snake-refresh", pair.RefreshToken)
}

func TestSubmitSignatureAddsHexPrefix(t *testing.T) {
	var payload map[string]interface{}
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "a", "refreshToken": "r"})
	}))
	defer remote.Close()

	auth := NewAuthClient(remote.URL, "APITRADER", remote.Client(), signer.New(), nil)
	_, err := auth.SubmitSignature(context.Background(), testAddress, "deadbeef", nil)
	require.NoError(t, err)

	details := payload["details"].(map[string]interface{})
	assert.Equal(t, "0xdeadbeef", details["signature"])
	_, hasTimestamp := details["timestamp"]
	assert.False(t, hasTimestamp)
}

func TestSubmitSignatureRejected(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"signature expired"}`, http.StatusUnauthorized)
	}))
	defer remote.Close()

	auth := NewAuthClient(remote.URL, "APITRADER", remote.Client(), signer.New(), nil)
	_, err := auth.SubmitSignature(context.Background(), testAddress, "0xdeadbeef", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAuthenticationFailed))

	var remoteErr *core.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusUnauthorized, remoteErr.Status)
	assert.Contains(t, remoteErr.Body, "signature expired")
}

func TestFetchChallengeNetworkError(t *testing.T) {
	auth := NewAuthClient("http://127.0.0.1:1", "APITRADER", &http.Client{}, signer.New(), nil)
	_, err := auth.FetchChallenge(context.Background(), testAddress)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRemoteUnavailable))
}

func TestRefreshRotatesTokens(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh-token", r.URL.Path)
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "old-refresh", payload["refreshToken"])
		json.NewEncoder(w).Encode(map[string]string{
			"accessToken":  "new-access",
			"refreshToken": "new-refresh",
		})
	}))
	defer remote.Close()

	auth := NewAuthClient(remote.URL, "APITRADER", remote.Client(), signer.New(), nil)
	pair, err := auth.Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", pair.AccessToken)
	assert.Equal(t, "new-refresh", pair.RefreshToken)
}

func TestRefreshRejected(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"refresh token revoked"}`, http.StatusUnauthorized)
	}))
	defer remote.Close()

	auth := NewAuthClient(remote.URL, "APITRADER", remote.Client(), signer.New(), nil)
	_, err := auth.Refresh(context.Background(), "revoked")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRefreshFailed))
}

func TestLogoutBestEffort(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer remote.Close()

	auth := NewAuthClient(remote.URL, "APITRADER", remote.Client(), signer.New(), nil)
	// Must not panic or return anything; failures are logged only.
	auth.Logout(context.Background(), "some-refresh")
	auth.Logout(context.Background(), "")
}
