package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ecofinder/internal/meli"
	"github.com/donaldgifford/ecofinder/internal/pipeline"
)

type fakeCatalog struct {
	found     []meli.CatalogProduct
	searchErr error
	products  map[string]*meli.CatalogProduct
	listings  map[string][]meli.ProductItem
	gotSite   string
	gotLimit  int
}

func (f *fakeCatalog) SearchCatalog(_ context.Context, site, _ string, limit int) ([]meli.CatalogProduct, error) {
	f.gotSite = site
	f.gotLimit = limit
	return f.found, f.searchErr
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*meli.CatalogProduct, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, &meli.StatusError{StatusCode: 404, Body: "not found"}
	}
	return p, nil
}

func (f *fakeCatalog) ProductItems(_ context.Context, id string) ([]meli.ProductItem, error) {
	items, ok := f.listings[id]
	if !ok {
		return nil, &meli.StatusError{StatusCode: 404, Body: "no items"}
	}
	return items, nil
}

func TestCatalog_Lookup(t *testing.T) {
	t.Parallel()

	client := &fakeCatalog{
		found: []meli.CatalogProduct{{ID: "P1"}, {ID: "P2"}, {ID: "P3"}},
		products: map[string]*meli.CatalogProduct{
			"P1": {ID: "P1", Name: "Termo de acero inoxidable", Permalink: "https://www.mercadolibre.cl/p/P1"},
			// P2 fails to load and is skipped.
			"P3": {ID: "P3", Name: "Taladro eléctrico", Permalink: "https://www.mercadolibre.cl/p/P3"},
		},
		listings: map[string][]meli.ProductItem{
			"P1": {{ItemID: "MLC2", Price: 15990, CurrencyID: "CLP"}, {ItemID: "MLC1", Price: 12990, CurrencyID: "CLP"}},
		},
	}

	c := pipeline.NewCatalog(client, "MLC", nil)

	got, err := c.Lookup(context.Background(), "", "termo", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "MLC", client.gotSite)
	assert.Equal(t, 10, client.gotLimit)

	assert.Equal(t, "P1", got[0].ID)
	assert.InDelta(t, 12990, got[0].Price, 0.001)
	assert.Equal(t, "CLP", got[0].Currency)
	assert.Equal(t, "https://articulo.mercadolibre.com/MLC-1", got[0].Permalink)
	assert.True(t, got[0].Ecological)

	// No listings: catalog permalink, zero price.
	assert.Equal(t, "P3", got[1].ID)
	assert.Zero(t, got[1].Price)
	assert.Equal(t, "https://www.mercadolibre.cl/p/P3", got[1].Permalink)
	assert.False(t, got[1].Ecological)
}

func TestCatalog_Lookup_Errors(t *testing.T) {
	t.Parallel()

	c := pipeline.NewCatalog(&fakeCatalog{searchErr: errors.New("boom")}, "", nil)

	_, err := c.Lookup(context.Background(), "MLA", "termo", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog lookup: boom")

	_, err = c.Lookup(context.Background(), "MLA", "  ", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a query")
}

func TestCatalog_Lookup_RespectsLimit(t *testing.T) {
	t.Parallel()

	client := &fakeCatalog{
		found: []meli.CatalogProduct{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		products: map[string]*meli.CatalogProduct{
			"A": {ID: "A", Name: "a"},
			"B": {ID: "B", Name: "b"},
			"C": {ID: "C", Name: "c"},
		},
	}

	got, err := pipeline.NewCatalog(client, "MLC", nil).Lookup(context.Background(), "MLC", "x", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
