package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/donaldgifford/ecofinder/pkg/eco"
)

type fixture struct {
	User       json.RawMessage     `json:"user"`
	Categories map[string]category `json:"categories"`
	Items      []fixtureItem       `json:"items"`
	Products   []fixtureProduct    `json:"products"`
}

type category struct {
	Name       string `json:"name"`
	DomainID   string `json:"domain_id"`
	DomainName string `json:"domain_name"`
}

type fixtureItem struct {
	ID         string          `json:"id"`
	SiteID     string          `json:"site_id"`
	Title      string          `json:"title"`
	CategoryID string          `json:"category_id"`
	Raw        json.RawMessage `json:"-"`
}

type fixtureProduct struct {
	ID       string            `json:"id"`
	SiteID   string            `json:"site_id"`
	Name     string            `json:"name"`
	Items    []json.RawMessage `json:"items"`
	Raw      json.RawMessage   `json:"-"`
}

func parseFixture(data []byte) (*fixture, error) {
	var f fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}

	// Keep the raw JSON of each entry so responses carry every field.
	var raw struct {
		Items    []json.RawMessage `json:"items"`
		Products []json.RawMessage `json:"products"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	for i := range f.Items {
		f.Items[i].Raw = raw.Items[i]
	}
	for i := range f.Products {
		p, err := stripItems(raw.Products[i])
		if err != nil {
			return nil, fmt.Errorf("parsing product %s: %w", f.Products[i].ID, err)
		}
		f.Products[i].Raw = p
	}

	return &f, nil
}

// stripItems drops the fixture-only "items" key from a product.
func stripItems(raw json.RawMessage) (json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	delete(m, "items")
	delete(m, "site_id")
	return json.Marshal(m)
}

// matches reports whether every word of query appears in text, ignoring
// case and accents.
func matches(text, query string) bool {
	text = eco.Normalize(text)
	for _, word := range strings.Fields(eco.Normalize(query)) {
		if !strings.Contains(text, word) {
			return false
		}
	}
	return true
}
