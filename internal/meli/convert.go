package meli

import (
	"strings"

	"github.com/donaldgifford/ecofinder/pkg/eco"
	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

// ToProducts converts search results into domain products, classifying each.
func ToProducts(items []Item) []domain.Product {
	products := make([]domain.Product, 0, len(items))
	for i := range items {
		products = append(products, ToProduct(&items[i]))
	}
	return products
}

// ToProduct converts a single search result.
func ToProduct(item *Item) domain.Product {
	p := domain.Product{
		ID:           item.ID,
		Title:        item.Title,
		Subtitle:     item.Subtitle,
		CategoryID:   item.CategoryID,
		Price:        item.Price,
		Currency:     item.CurrencyID,
		ThumbnailURL: secureURL(item.Thumbnail),
		Permalink:    item.Permalink,
		Condition:    item.Condition,
		Attributes:   toAttributes(item.Attributes),
	}
	p.Ecological = eco.IsEcological(&p)
	return p
}

// ProductFromCatalog converts a catalog product and, when present, its
// cheapest active listing. A product with a listing links to that listing;
// without one it keeps the catalog permalink.
func ProductFromCatalog(cp *CatalogProduct, listing *ProductItem) domain.Product {
	p := domain.Product{
		ID:         cp.ID,
		Title:      cp.Name,
		Name:       cp.Name,
		CategoryID: cp.DomainID,
		Permalink:  cp.Permalink,
		Attributes: toAttributes(cp.Attributes),
	}

	if len(cp.Pictures) > 0 {
		p.ThumbnailURL = secureURL(cp.Pictures[0].URL)
	}

	if listing != nil {
		p.Price = listing.Price
		p.Currency = listing.CurrencyID
		p.Condition = listing.Condition
		if link := itemPermalink(listing.ItemID); link != "" {
			p.Permalink = link
		}
	}

	p.Ecological = eco.IsEcological(&p)
	return p
}

// CheapestListing returns the lowest-priced listing, nil when there are none.
func CheapestListing(items []ProductItem) *ProductItem {
	var best *ProductItem
	for i := range items {
		if best == nil || items[i].Price < best.Price {
			best = &items[i]
		}
	}
	return best
}

func toAttributes(attrs []Attribute) []domain.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]domain.Attribute, 0, len(attrs))
	for _, a := range attrs {
		if a.ValueName == "" {
			continue
		}
		out = append(out, domain.Attribute{ID: a.ID, Name: a.Name, Value: a.ValueName})
	}
	return out
}

// secureURL upgrades image URLs to https; the API still returns plain http
// thumbnails for older listings.
func secureURL(u string) string {
	if rest, ok := strings.CutPrefix(u, "http://"); ok {
		return "https://" + rest
	}
	return u
}

// itemPermalink builds the public article URL for an item ID like MLC123456.
func itemPermalink(itemID string) string {
	if len(itemID) < 4 {
		return ""
	}
	return "https://articulo.mercadolibre.com/" + itemID[:3] + "-" + itemID[3:]
}
