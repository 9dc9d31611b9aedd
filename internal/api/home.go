package api

import (
	"context"
	"net/http"

	"racketoutlet/pkg/domain"
)

// HomePayload is the aggregated homepage content plus the server's content
// version, used by callers to decide whether a cached copy is still current.
type HomePayload struct {
	Version string          `json:"version"`
	Data    domain.HomeData `json:"data"`
}

// HomeVersion fetches only the current content version, the cheap probe
// backing the client-side versioned cache.
func (c *Client) HomeVersion(ctx context.Context) (string, error) {
	var resp struct {
		Version string `json:"version"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/homepage/version/", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

// Home fetches the aggregated homepage content.
func (c *Client) Home(ctx context.Context) (HomePayload, error) {
	var payload HomePayload
	if err := c.doJSON(ctx, http.MethodGet, "/api/homepage/", nil, nil, &payload); err != nil {
		return HomePayload{}, err
	}
	return payload, nil
}
