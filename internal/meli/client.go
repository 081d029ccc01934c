// Package meli provides a MercadoLibre API client with OAuth2 token
// management, abstracted behind interfaces for testability.
package meli

import (
	"context"

	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

// SearchRequest defines the parameters for a marketplace search.
type SearchRequest struct {
	Site       string // "MLC", "MLA"; empty uses the client default
	Query      string
	CategoryID string
	Limit      int
	Offset     int
}

// SearchResponse holds the results of a marketplace search.
type SearchResponse struct {
	Items  []Item
	Total  int
	Offset int
	Limit  int
	Site   string
}

// TokenProvider supplies bearer tokens for authenticated calls.
// Refresh forces a new token after the API rejected the given one.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context, rejected string) (string, error)
}

// CredentialStore persists the OAuth2 credential. Update runs fn against the
// current record while holding the store's lock and saves the result when fn
// returns nil.
type CredentialStore interface {
	Update(ctx context.Context, fn func(*domain.Credential) error) error
}
