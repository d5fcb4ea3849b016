// Package upstream provides the HTTP client used to call the gateway's
// remote collaborators: the DICOM converter and the per-product
// prediction services.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout  = 30 * time.Second
	maxErrorSnippet = 512
)

// Error describes a failed upstream call. Transport failures and non-2xx
// statuses both map to it; the detail is for logs only and must never be
// forwarded to the end caller.
type Error struct {
	URL        string
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream call %s: status %d: %s", e.URL, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("upstream call %s: %s", e.URL, e.Detail)
}

// Caller posts a JSON payload with bearer auth and returns the JSON response.
type Caller interface {
	PostJSON(ctx context.Context, url, bearerToken string, body json.RawMessage) (json.RawMessage, error)
}

// Client implements Caller on net/http with a bounded per-call timeout.
type Client struct {
	httpClient *http.Client
}

// NewClient constructs a Client. A non-positive timeout falls back to the
// UPSTREAM_TIMEOUT_SECONDS env var, then to the 30s default.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
		if raw := strings.TrimSpace(os.Getenv("UPSTREAM_TIMEOUT_SECONDS")); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				timeout = time.Duration(parsed) * time.Second
			}
		}
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// PostJSON sends body to url with the given bearer token. Any transport
// failure, timeout, or non-2xx status yields an *Error; payloads are not
// retried because upstream compute is not idempotent.
func (c *Client) PostJSON(ctx context.Context, url, bearerToken string, body json.RawMessage) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{URL: url, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Detail: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: url, StatusCode: resp.StatusCode, Detail: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{URL: url, StatusCode: resp.StatusCode, Detail: snippet(raw)}
	}

	if !json.Valid(raw) {
		return nil, &Error{URL: url, StatusCode: resp.StatusCode, Detail: "invalid JSON response"}
	}
	return json.RawMessage(raw), nil
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorSnippet {
		s = s[:maxErrorSnippet]
	}
	return s
}

var _ Caller = (*Client)(nil)
