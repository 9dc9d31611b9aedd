// Package api is the typed client for the storefront REST API. It owns bearer
// attachment and the one-shot 401 refresh-and-retry discipline; resource
// methods live in per-resource files.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"racketoutlet/internal/tokens"
)

// Config wires the client's dependencies.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  *tokens.Store
	// OnSessionExpired fires after an irrecoverable refresh failure, once the
	// session has been cleared. The view layer's login redirect lives here.
	OnSessionExpired func()
}

// Client calls the storefront API over HTTP.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	tokens           *tokens.Store
	onSessionExpired func()
	refreshGroup     singleflight.Group
}

// NewClient constructs an API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:       &http.Client{Timeout: timeout},
		tokens:           cfg.Tokens,
		onSessionExpired: cfg.OnSessionExpired,
	}
}

// bodyFunc produces a fresh request body and its content type. The body is
// rebuilt per attempt so a retried request never reuses a drained reader.
type bodyFunc func() (io.Reader, string, error)

func jsonBody(payload any) bodyFunc {
	return func() (io.Reader, string, error) {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// doJSON performs a JSON request with auth attached and the 401 retry policy.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	var body bodyFunc
	if payload != nil {
		body = jsonBody(payload)
	}
	return c.send(ctx, method, path, query, body, out, false)
}

// send issues one attempt. retried is the explicit retry state: a request that
// already went through a refresh-and-retry is never retried again, so a second
// 401 propagates as a final failure.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body bodyFunc, out any, retried bool) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !retried {
		if c.refreshSession(ctx) {
			return c.send(ctx, method, path, query, body, out, true)
		}
		// No refresh token: the original 401 propagates unmodified.
	}
	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body bodyFunc) (*http.Request, error) {
	var reader io.Reader
	var contentType string
	if body != nil {
		var err error
		reader, contentType, err = body()
		if err != nil {
			return nil, err
		}
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if access, err := c.tokens.AccessToken(ctx); err == nil {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	return req, nil
}

// refreshSession exchanges the refresh token for a new access token. It
// reports whether the caller should retry. Concurrent 401s share a single
// refresh call. A refresh failure of any kind (network or rejection) clears
// the session and notifies OnSessionExpired; the absence of a refresh token
// only means the original 401 stands.
func (c *Client) refreshSession(ctx context.Context) bool {
	refresh, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return false
	}
	_, err, _ = c.refreshGroup.Do("refresh", func() (any, error) {
		access, err := c.postRefresh(ctx, refresh)
		if err != nil {
			return nil, err
		}
		return nil, c.tokens.SetAccessToken(ctx, access)
	})
	if err != nil {
		_ = c.tokens.ClearSession(ctx)
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return false
	}
	return true
}

// postRefresh calls the token refresh endpoint directly, outside the
// interceptor: a 401 here must never recurse into another refresh.
func (c *Client) postRefresh(ctx context.Context, refreshToken string) (string, error) {
	data, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/token/refresh/", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", decodeAPIError(resp)
	}
	var body struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Access == "" {
		return "", errors.New("refresh response missing access token")
	}
	return body.Access, nil
}
