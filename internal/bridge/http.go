// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"storj/cli/internal/logging"
	"storj/cli/internal/status"

	"github.com/google/uuid"
)

// HTTP implements Client over the bridge's REST endpoints.
type HTTP struct {
	// baseURL is the base URL for all requests (e.g., "https://api.storj.io:443")
	baseURL string
	user    string
	// passHash is the hex SHA-256 of the password; the bridge never sees the plain text.
	passHash  string
	userAgent string
	shardSize int64
	client    *http.Client
}

func newHTTP(opts Options) *HTTP {
	client := opts.HTTPClient
	if client == nil {
		client = defaultHTTPClient()
	}
	shardSize := opts.ShardSize
	if shardSize <= 0 {
		shardSize = DefaultShardSize
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "storj-cli"
	}
	return &HTTP{
		baseURL:   strings.TrimRight(opts.Endpoint.BaseURL(), "/"),
		user:      opts.User,
		passHash:  HashPassword(opts.Password),
		userAgent: userAgent,
		shardSize: shardSize,
		client:    client,
	}
}

// HashPassword returns the form of the password the bridge authenticates against.
func HashPassword(pass string) string {
	if pass == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(pass))
	return hex.EncodeToString(sum[:])
}

// GetInfo calls GET / and returns the decoded document. No authentication required.
func (h *HTTP) GetInfo(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := h.doJSON(ctx, http.MethodGet, "/", nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBuckets calls GET /buckets.
func (h *HTTP) ListBuckets(ctx context.Context) ([]Bucket, error) {
	var out []Bucket
	if err := h.doJSON(ctx, http.MethodGet, "/buckets", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBucket calls POST /buckets.
func (h *HTTP) CreateBucket(ctx context.Context, name string) (*Bucket, error) {
	var out Bucket
	body := map[string]string{"name": name}
	if err := h.doJSON(ctx, http.MethodPost, "/buckets", body, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFiles calls GET /buckets/{id}/files.
func (h *HTTP) ListFiles(ctx context.Context, bucketID string) ([]File, error) {
	var out []File
	if err := h.doJSON(ctx, http.MethodGet, "/buckets/"+url.PathEscape(bucketID)+"/files", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases idle keep-alive connections.
func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	return nil
}

// doJSON sends an optional JSON body and decodes a JSON response into out.
func (h *HTTP) doJSON(ctx context.Context, method, path string, in any, auth bool, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return status.Wrap(status.BridgeRequestError, err)
		}
		body = bytes.NewReader(b)
	}

	resp, err := h.do(ctx, method, path, body, "application/json", auth)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return status.Wrap(status.BridgeJSONError, fmt.Errorf("%s %s: decode response: %w", method, path, err))
	}
	return nil
}

// do issues a request and returns the response when the bridge answered with 2xx.
// The caller closes the body.
func (h *HTTP) do(ctx context.Context, method, path string, body io.Reader, contentType string, auth bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return nil, status.Wrap(status.BridgeRequestError, err)
	}
	h.setStandardHeaders(req)
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		req.SetBasicAuth(h.user, h.passHash)
	}

	logging.Debugf("bridge: %s %s (request %s)", method, h.baseURL+path, req.Header.Get("X-Request-Id"))

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, status.Wrap(transportStatus(err), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, status.Wrap(httpStatus(resp.StatusCode),
			fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(b))))
	}
	return resp, nil
}

// setStandardHeaders sets common headers for all requests.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
}

// httpStatus maps an HTTP status to a bridge status code.
func httpStatus(code int) int {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return status.BridgeAuthError
	case code == http.StatusNotFound:
		return status.BridgeNotFoundError
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return status.BridgeTimeoutError
	case code >= 500:
		return status.BridgeInternalError
	}
	return status.BridgeRequestError
}

// transportStatus maps a transport failure to a bridge status code.
func transportStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return status.BridgeTimeoutError
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return status.BridgeTimeoutError
	}
	return status.BridgeRequestError
}
