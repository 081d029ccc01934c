package meli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

const maxSearchLimit = 50

// Search runs an authenticated search against /sites/{site}/search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	return c.search(ctx, req, true)
}

// PublicSearch runs the same search without an Authorization header.
func (c *Client) PublicSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	return c.search(ctx, req, false)
}

func (c *Client) search(ctx context.Context, req SearchRequest, auth bool) (*SearchResponse, error) {
	if req.Query == "" && req.CategoryID == "" {
		return nil, errors.New("search requires a query or a category")
	}

	site := c.siteOrDefault(req.Site)
	limit := req.Limit
	if limit <= 0 || limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	params := url.Values{}
	if req.Query != "" {
		params.Set("q", req.Query)
	}
	if req.CategoryID != "" {
		params.Set("category", req.CategoryID)
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(max(req.Offset, 0)))

	endpoint := "search"
	if !auth {
		endpoint = "search_public"
	}

	var raw searchAPIResponse
	err := c.get(ctx, call{
		endpoint: endpoint,
		path:     "/sites/" + url.PathEscape(site) + "/search",
		query:    params,
		auth:     auth,
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", site, err)
	}

	resp := &SearchResponse{
		Items:  raw.Results,
		Total:  len(raw.Results),
		Offset: max(req.Offset, 0),
		Limit:  limit,
		Site:   site,
	}
	if raw.Paging != nil {
		resp.Total = raw.Paging.Total
		resp.Offset = raw.Paging.Offset
		if raw.Paging.Limit > 0 {
			resp.Limit = raw.Paging.Limit
		}
	}

	return resp, nil
}
