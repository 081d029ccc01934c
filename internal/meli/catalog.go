package meli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchCatalog searches active catalog products with /products/search.
func (c *Client) SearchCatalog(
	ctx context.Context,
	site, query string,
	limit int,
) ([]CatalogProduct, error) {
	site = c.siteOrDefault(site)

	params := url.Values{
		"site_id": {site},
		"q":       {query},
		"status":  {"active"},
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var raw catalogSearchResponse
	err := c.get(ctx, call{
		endpoint: "products_search",
		path:     "/products/search",
		query:    params,
		auth:     true,
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("searching catalog for %q on %s: %w", query, site, err)
	}

	return raw.Results, nil
}

// GetProduct fetches a catalog product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*CatalogProduct, error) {
	var p CatalogProduct
	err := c.get(ctx, call{
		endpoint: "product",
		path:     "/products/" + url.PathEscape(id),
		auth:     true,
	}, &p)
	if err != nil {
		return nil, fmt.Errorf("fetching product %s: %w", id, err)
	}
	return &p, nil
}

// ProductItems lists the active listings of a catalog product.
func (c *Client) ProductItems(ctx context.Context, id string) ([]ProductItem, error) {
	var raw productItemsResponse
	err := c.get(ctx, call{
		endpoint: "product_items",
		path:     "/products/" + url.PathEscape(id) + "/items",
		auth:     true,
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("fetching listings of product %s: %w", id, err)
	}
	return raw.Results, nil
}
