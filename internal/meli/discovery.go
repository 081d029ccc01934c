package meli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// DiscoverCategories maps a free-text query to likely categories using
// /sites/{site}/domain_discovery/search. Suggestions come back in relevance
// order and may repeat a category.
func (c *Client) DiscoverCategories(
	ctx context.Context,
	site, query string,
	limit int,
) ([]CategorySuggestion, error) {
	site = c.siteOrDefault(site)

	params := url.Values{"q": {query}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var out []CategorySuggestion
	err := c.get(ctx, call{
		endpoint: "domain_discovery",
		path:     "/sites/" + url.PathEscape(site) + "/domain_discovery/search",
		query:    params,
		auth:     true,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("discovering categories for %q on %s: %w", query, site, err)
	}

	return out, nil
}
