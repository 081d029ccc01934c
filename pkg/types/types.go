// Package domain defines the core business types for ecofinder.
package domain

import (
	"time"
)

// Credential is the persisted OAuth2 credential pair for the marketplace API.
// ExpiresAt is the provider-reported expiry; callers apply their own safety
// margin when checking validity.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Valid reports whether the access token can still be used at now, treating
// it as expired margin before ExpiresAt.
func (c *Credential) Valid(now time.Time, margin time.Duration) bool {
	if c == nil || c.AccessToken == "" {
		return false
	}
	return now.Before(c.ExpiresAt.Add(-margin))
}

// Attribute is a single name/value attribute of a marketplace product.
type Attribute struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product is a marketplace item converted for display.
type Product struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Name       string `json:"name,omitempty"`
	Subtitle   string `json:"subtitle,omitempty"`
	CategoryID string `json:"category_id,omitempty"`

	// Pricing
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`

	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	Permalink    string      `json:"permalink"`
	Condition    string      `json:"condition,omitempty"`
	Attributes   []Attribute `json:"attributes,omitempty"`

	// Ecological is the classifier verdict, computed on conversion.
	Ecological bool `json:"ecological"`
}

// Paging describes where a search result came from and how to page through it.
type Paging struct {
	Total        int    `json:"total"`
	Limit        int    `json:"limit"`
	Offset       int    `json:"offset"`
	RegionUsed   string `json:"region_used"`
	UsedFallback bool   `json:"used_fallback"`
	UsedQuery    string `json:"used_query"`
	Strategy     string `json:"strategy,omitempty"`
}

// HasMore reports whether another page exists after this one.
func (p Paging) HasMore() bool {
	return p.Offset+p.Limit < p.Total
}

// NextOffset returns the offset of the following page.
func (p Paging) NextOffset() int {
	return p.Offset + p.Limit
}

// PrevOffset returns the offset of the previous page, never below zero.
func (p Paging) PrevOffset() int {
	return max(p.Offset-p.Limit, 0)
}
