package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

// SearchParams are the query parameters of a search.
type SearchParams struct {
	Query   string
	Site    string
	Limit   int
	Offset  int
	EcoOnly bool
}

// SearchResponse is the body of GET /api/v1/search.
type SearchResponse struct {
	OK      bool             `json:"ok"`
	Error   string           `json:"error,omitempty"`
	Paging  domain.Paging    `json:"paging"`
	Results []domain.Product `json:"results"`
}

// Search runs a product search.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResponse, error) {
	q := url.Values{}
	q.Set("q", p.Query)
	if p.Site != "" {
		q.Set("site", p.Site)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.EcoOnly {
		q.Set("eco", "true")
	}

	var resp SearchResponse
	if err := c.get(ctx, "/api/v1/search", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
