package meli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/ecofinder/internal/meli"
	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

func TestToProducts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []meli.Item
		want  []domain.Product
	}{
		{
			name:  "empty input returns empty slice",
			items: nil,
			want:  []domain.Product{},
		},
		{
			name: "complete item converts all fields",
			items: []meli.Item{
				{
					ID:         "MLC1",
					Title:      "Botella de acero inoxidable 750ml",
					Subtitle:   "Térmica",
					Price:      12990,
					CurrencyID: "CLP",
					Thumbnail:  "http://http2.mlstatic.com/D_1.jpg",
					Permalink:  "https://articulo.mercadolibre.cl/MLC-1",
					Condition:  "new",
					CategoryID: "MLC1902",
					Attributes: []meli.Attribute{
						{ID: "BRAND", Name: "Marca", ValueName: "Verde"},
						{ID: "EMPTY", Name: "Vacío", ValueName: ""},
					},
				},
			},
			want: []domain.Product{
				{
					ID:           "MLC1",
					Title:        "Botella de acero inoxidable 750ml",
					Subtitle:     "Térmica",
					CategoryID:   "MLC1902",
					Price:        12990,
					Currency:     "CLP",
					ThumbnailURL: "https://http2.mlstatic.com/D_1.jpg",
					Permalink:    "https://articulo.mercadolibre.cl/MLC-1",
					Condition:    "new",
					Attributes: []domain.Attribute{
						{ID: "BRAND", Name: "Marca", Value: "Verde"},
					},
					Ecological: true,
				},
			},
		},
		{
			name: "non ecological item",
			items: []meli.Item{
				{ID: "MLC2", Title: "Taladro eléctrico 600W", Price: 39990, CurrencyID: "CLP"},
			},
			want: []domain.Product{
				{ID: "MLC2", Title: "Taladro eléctrico 600W", Price: 39990, Currency: "CLP"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, meli.ToProducts(tt.items))
		})
	}
}

func TestProductFromCatalog(t *testing.T) {
	t.Parallel()

	cp := &meli.CatalogProduct{
		ID:        "MLC100",
		Name:      "Cepillo de dientes",
		DomainID:  "MLC-TOOTHBRUSHES",
		Permalink: "https://www.mercadolibre.cl/p/MLC100",
		Pictures:  []meli.Picture{{ID: "P1", URL: "http://http2.mlstatic.com/p1.jpg"}},
		Attributes: []meli.Attribute{
			{ID: "MATERIAL", Name: "Material", ValueName: "Bambú"},
		},
	}

	t.Run("with listing", func(t *testing.T) {
		t.Parallel()

		p := meli.ProductFromCatalog(cp, &meli.ProductItem{
			ItemID: "MLC8", Price: 2990, CurrencyID: "CLP", Condition: "new",
		})
		assert.Equal(t, "Cepillo de dientes", p.Title)
		assert.Equal(t, "Cepillo de dientes", p.Name)
		assert.InDelta(t, 2990, p.Price, 0.001)
		assert.Equal(t, "CLP", p.Currency)
		assert.Equal(t, "https://articulo.mercadolibre.com/MLC-8", p.Permalink)
		assert.Equal(t, "https://http2.mlstatic.com/p1.jpg", p.ThumbnailURL)
		assert.True(t, p.Ecological)
	})

	t.Run("without listing keeps catalog permalink and zero price", func(t *testing.T) {
		t.Parallel()

		p := meli.ProductFromCatalog(cp, nil)
		assert.Zero(t, p.Price)
		assert.Empty(t, p.Currency)
		assert.Equal(t, "https://www.mercadolibre.cl/p/MLC100", p.Permalink)
	})

	t.Run("listing without item id keeps catalog permalink", func(t *testing.T) {
		t.Parallel()

		p := meli.ProductFromCatalog(cp, &meli.ProductItem{Price: 1990, CurrencyID: "CLP"})
		assert.Equal(t, "https://www.mercadolibre.cl/p/MLC100", p.Permalink)
	})

	t.Run("listing permalink when catalog has none", func(t *testing.T) {
		t.Parallel()

		p := meli.ProductFromCatalog(&meli.CatalogProduct{ID: "MLC5", Name: "Termo"},
			&meli.ProductItem{ItemID: "MLC123456", Price: 1})
		assert.Equal(t, "https://articulo.mercadolibre.com/MLC-123456", p.Permalink)
	})
}

func TestCheapestListing(t *testing.T) {
	t.Parallel()

	assert.Nil(t, meli.CheapestListing(nil))

	got := meli.CheapestListing([]meli.ProductItem{
		{ItemID: "a", Price: 30},
		{ItemID: "b", Price: 10},
		{ItemID: "c", Price: 10},
	})
	assert.Equal(t, "b", got.ItemID)
}
