package meli

import (
	"context"
	"fmt"
)

// Me returns the account behind the current access token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	err := c.get(ctx, call{
		endpoint: "users_me",
		path:     "/users/me",
		auth:     true,
	}, &u)
	if err != nil {
		return nil, fmt.Errorf("fetching current user: %w", err)
	}
	return &u, nil
}
