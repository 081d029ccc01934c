package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/donaldgifford/ecofinder/internal/meli"
	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

// CatalogClient is the subset of the marketplace client used by Catalog.
type CatalogClient interface {
	SearchCatalog(ctx context.Context, site, query string, limit int) ([]meli.CatalogProduct, error)
	GetProduct(ctx context.Context, id string) (*meli.CatalogProduct, error)
	ProductItems(ctx context.Context, id string) ([]meli.ProductItem, error)
}

// Catalog looks products up in the marketplace catalog and prices each one
// with its cheapest active listing.
type Catalog struct {
	client CatalogClient
	site   string
	logger *slog.Logger
}

// NewCatalog creates a catalog lookup defaulting to site.
func NewCatalog(client CatalogClient, site string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if site == "" {
		site = defaultPrimarySite
	}
	return &Catalog{client: client, site: site, logger: logger}
}

// Lookup searches the catalog for query and resolves up to limit products.
// Products that fail to load are logged and skipped; a product with no
// active listing keeps its catalog permalink and a zero price.
func (c *Catalog) Lookup(ctx context.Context, site, query string, limit int) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("catalog lookup requires a query")
	}
	if site == "" {
		site = c.site
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	found, err := c.client.SearchCatalog(ctx, site, query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}

	products := make([]domain.Product, 0, len(found))
	for i := range found {
		if len(products) == limit {
			break
		}

		id := found[i].ID
		detail, err := c.client.GetProduct(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return products, ctx.Err()
			}
			c.logger.Warn("skipping catalog product", "product_id", id, "err", err)
			continue
		}

		listings, err := c.client.ProductItems(ctx, id)
		if err != nil {
			// Catalog products without active listings answer 404.
			c.logger.Debug("no listings for catalog product", "product_id", id, "err", err)
		}

		products = append(products, meli.ProductFromCatalog(detail, meli.CheapestListing(listings)))
	}

	return products, nil
}
