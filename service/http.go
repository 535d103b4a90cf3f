package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/arbit-labs/arbit/core"
)

// apiConn is the shared HTTP plumbing for the remote trading API. Every
// request carries the X-Client-Id header; no retries, no timeouts beyond the
// injected client's own.
type apiConn struct {
	baseURL  string
	clientID string
	httpc    *http.Client
}

// do issues a request and returns the raw body and status. body == nil sends
// no request body and, deliberately, no Content-Type header: the agent wallet
// endpoint rejects an empty body paired with a JSON content-type.
func (c *apiConn) do(ctx context.Context, method, path string, body interface{}, bearer string) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Id", c.clientID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s %s: %v", core.ErrRemoteUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return data, resp.StatusCode, nil
}
