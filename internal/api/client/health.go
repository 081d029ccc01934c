package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// User is the MercadoLibre account behind the server's credential.
type User struct {
	ID        int64  `json:"id"`
	Nickname  string `json:"nickname"`
	SiteID    string `json:"site_id"`
	Permalink string `json:"permalink,omitempty"`
}

// HealthResponse is the body of GET /api/v1/ml/health.
type HealthResponse struct {
	OK    bool   `json:"ok"`
	User  *User  `json:"user,omitempty"`
	Error string `json:"error,omitempty"`
}

// QuotaResponse is the body of GET /api/v1/quota.
type QuotaResponse struct {
	DailyLimit int64     `json:"daily_limit"`
	DailyUsed  int64     `json:"daily_used"`
	Remaining  int64     `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
}

// Health checks the server's MercadoLibre credential. A 502 from the server
// is decoded into a response with OK false rather than returned as an error.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	err := c.get(ctx, "/api/v1/ml/health", nil, &resp)
	if apiErr, ok := asAPIError(err, http.StatusBadGateway); ok {
		if jerr := json.Unmarshal(apiErr.Body, &resp); jerr != nil {
			return nil, fmt.Errorf("decoding response: %w", jerr)
		}
		return &resp, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Quota returns the server's MercadoLibre call budget.
func (c *Client) Quota(ctx context.Context) (*QuotaResponse, error) {
	var resp QuotaResponse
	if err := c.get(ctx, "/api/v1/quota", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
