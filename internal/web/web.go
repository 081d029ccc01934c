// Package web renders the HTML pages of the ecofinder site as templ
// components.
package web

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

// SearchPage is the view model of the home and search pages.
type SearchPage struct {
	Query    string
	EcoOnly  bool
	Products []domain.Product
	Paging   domain.Paging
	Error    string
}

// CatalogPage is the view model of the catalog products page.
type CatalogPage struct {
	Query    string
	Site     string
	Products []domain.Product
	Error    string
}

// htmlWriter records the first write error so page code can stay linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Layout wraps body in the shared page chrome.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(title)
		h.raw(" · EcoFinder</title><style>")
		h.raw(stylesheet)
		h.raw("</style></head><body><header><nav>")
		h.raw(`<a href="/" class="brand">EcoFinder</a>`)
		h.raw(`<a href="/search/products">Catálogo</a>`)
		h.raw(`<a href="/eco-tips">Eco tips</a>`)
		h.raw("</nav></header><main>")
		h.render(ctx, body)
		h.raw("</main></body></html>")
		return h.err
	})
}

// Search renders the search form, results grid and pagination.
func Search(page SearchPage) templ.Component {
	return Layout(titleFor(page.Query), templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		searchForm(h, "/search", page.Query, page.EcoOnly)

		if page.Error != "" {
			h.raw(`<p class="error">`)
			h.text(page.Error)
			h.raw("</p>")
		}

		h.raw(`<p class="summary">`)
		h.text(summary(page))
		h.raw("</p>")

		productGrid(h, page.Products)
		pagination(h, page)
		return h.err
	}))
}

// Catalog renders catalog products with their cheapest listing.
func Catalog(page CatalogPage) templ.Component {
	return Layout("Catálogo", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		searchForm(h, "/search/products", page.Query, false)

		if page.Error != "" {
			h.raw(`<p class="error">`)
			h.text(page.Error)
			h.raw("</p>")
		}

		if page.Query != "" && len(page.Products) == 0 && page.Error == "" {
			h.raw(`<p class="summary">Sin productos de catálogo para `)
			h.text(strconv.Quote(page.Query))
			h.raw(".</p>")
		}

		productGrid(h, page.Products)
		return h.err
	}))
}

// EcoTips renders the static sustainability tips page.
func EcoTips() templ.Component {
	return Layout("Eco tips", templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<h1>Consejos para comprar sustentable</h1><ul class=\"tips\">")
		for _, tip := range ecoTips {
			h.raw("<li><strong>")
			h.text(tip.title)
			h.raw("</strong> ")
			h.text(tip.body)
			h.raw("</li>")
		}
		h.raw("</ul>")
		return h.err
	}))
}

func searchForm(h *htmlWriter, action, query string, ecoOnly bool) {
	h.raw(`<form class="search" method="get"`)
	h.attr("action", action)
	h.raw(`><input type="search" name="q" placeholder="Buscar productos"`)
	h.attr("value", query)
	h.raw(">")
	if action == "/search" {
		h.raw(`<label><input type="checkbox" name="eco" value="true"`)
		if ecoOnly {
			h.raw(" checked")
		}
		h.raw("> Solo ecológicos</label>")
	}
	h.raw(`<button type="submit">Buscar</button></form>`)
}

func productGrid(h *htmlWriter, products []domain.Product) {
	if len(products) == 0 {
		return
	}
	h.raw(`<ul class="grid">`)
	for i := range products {
		productCard(h, &products[i])
	}
	h.raw("</ul>")
}

func productCard(h *htmlWriter, p *domain.Product) {
	h.raw(`<li class="card`)
	if p.Ecological {
		h.raw(" eco")
	}
	h.raw(`"><a`)
	h.attr("href", string(templ.URL(p.Permalink)))
	h.raw(` target="_blank" rel="noopener">`)
	if p.ThumbnailURL != "" {
		h.raw("<img")
		h.attr("src", string(templ.URL(p.ThumbnailURL)))
		h.attr("alt", p.Title)
		h.raw(` loading="lazy">`)
	}
	h.raw("<h2>")
	h.text(p.Title)
	h.raw("</h2>")
	if p.Price > 0 {
		h.raw(`<p class="price">`)
		h.text(FormatPrice(p.Price, p.Currency))
		h.raw("</p>")
	}
	if p.Ecological {
		h.raw(`<span class="badge">Ecológico</span>`)
	}
	h.raw("</a></li>")
}

func pagination(h *htmlWriter, page SearchPage) {
	p := page.Paging
	if p.Offset <= 0 && !p.HasMore() {
		return
	}
	h.raw(`<nav class="pages">`)
	if p.Offset > 0 {
		h.raw("<a")
		h.attr("href", searchURL(page.Query, page.EcoOnly, p.PrevOffset()))
		h.raw(">&laquo; Anterior</a>")
	}
	if p.HasMore() {
		h.raw("<a")
		h.attr("href", searchURL(page.Query, page.EcoOnly, p.NextOffset()))
		h.raw(">Siguiente &raquo;</a>")
	}
	h.raw("</nav>")
}

func searchURL(query string, ecoOnly bool, offset int) string {
	v := url.Values{}
	v.Set("q", query)
	if ecoOnly {
		v.Set("eco", "true")
	}
	if offset > 0 {
		v.Set("offset", strconv.Itoa(offset))
	}
	return "/search?" + v.Encode()
}

func titleFor(query string) string {
	if query == "" {
		return "Inicio"
	}
	return query
}

func summary(page SearchPage) string {
	p := page.Paging
	if len(page.Products) == 0 {
		return fmt.Sprintf("Sin resultados para %q.", page.Query)
	}
	s := fmt.Sprintf("%d resultados para %q en %s", p.Total, p.UsedQuery, p.RegionUsed)
	if p.UsedFallback {
		s += " (región alternativa)"
	}
	return s + "."
}

// FormatPrice renders a price with thousands separators, e.g. "$ 12.990 CLP".
func FormatPrice(amount float64, currency string) string {
	whole := int64(amount)
	cents := int64((amount-float64(whole))*100 + 0.5)
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := strconv.FormatInt(whole, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	s := "$ " + string(out)
	if cents > 0 {
		s += fmt.Sprintf(",%02d", cents)
	}
	if currency != "" {
		s += " " + currency
	}
	return s
}
