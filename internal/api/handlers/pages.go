package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/ecofinder/internal/pipeline"
	"github.com/donaldgifford/ecofinder/internal/web"
	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

// defaultHomeQuery fills the home page when the visitor has not searched yet.
const defaultHomeQuery = "mouse"

// CatalogLookup resolves catalog products with their cheapest listing.
type CatalogLookup interface {
	Lookup(ctx context.Context, site, query string, limit int) ([]domain.Product, error)
}

// PageHandler renders the HTML pages.
type PageHandler struct {
	search  Searcher
	catalog CatalogLookup
	log     *slog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(search Searcher, catalog CatalogLookup, log *slog.Logger) *PageHandler {
	return &PageHandler{search: search, catalog: catalog, log: log}
}

// Home renders search results, defaulting to a sample query.
func (h *PageHandler) Home(c echo.Context) error {
	return h.renderSearch(c, defaultHomeQuery)
}

// Search renders search results for the q parameter.
func (h *PageHandler) Search(c echo.Context) error {
	return h.renderSearch(c, "")
}

func (h *PageHandler) renderSearch(c echo.Context, fallbackQuery string) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		query = fallbackQuery
	}

	page := web.SearchPage{
		Query:   query,
		EcoOnly: parseBool(c.QueryParam("eco")),
		Paging:  domain.Paging{RegionUsed: strings.ToUpper(c.QueryParam("site"))},
	}
	if query == "" {
		return render(c, http.StatusOK, web.Search(page))
	}

	res, err := h.search.Search(c.Request().Context(), pipeline.Request{
		Query:   query,
		Site:    c.QueryParam("site"),
		Offset:  parseOffset(c.QueryParam("offset")),
		EcoOnly: page.EcoOnly,
	})
	if res != nil {
		page.Products = res.Products
		page.Paging = res.Paging
	}

	status := http.StatusOK
	if err != nil {
		h.log.Warn("search page failed", "query", query, "err", err)
		page.Error = "No pudimos completar la búsqueda: " + err.Error()
		if errors.Is(err, pipeline.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
	}

	return render(c, status, web.Search(page))
}

// Products renders catalog products for the q parameter.
func (h *PageHandler) Products(c echo.Context) error {
	page := web.CatalogPage{
		Query: strings.TrimSpace(c.QueryParam("q")),
		Site:  strings.ToUpper(c.QueryParam("site")),
	}
	if page.Query == "" {
		return render(c, http.StatusOK, web.Catalog(page))
	}

	products, err := h.catalog.Lookup(c.Request().Context(), page.Site, page.Query, 0)
	if err != nil {
		h.log.Warn("catalog page failed", "query", page.Query, "err", err)
		page.Error = "No pudimos consultar el catálogo: " + err.Error()
	}
	page.Products = products

	return render(c, http.StatusOK, web.Catalog(page))
}

// EcoTips renders the static tips page.
func (*PageHandler) EcoTips(c echo.Context) error {
	return render(c, http.StatusOK, web.EcoTips())
}

// RegisterPageRoutes registers the HTML pages on e.
func RegisterPageRoutes(e *echo.Echo, h *PageHandler) {
	e.GET("/", h.Home)
	e.GET("/search", h.Search)
	e.GET("/search/products", h.Products)
	e.GET("/eco-tips", h.EcoTips)
}

func render(c echo.Context, status int, page templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return page.Render(c.Request().Context(), c.Response().Writer)
}

func parseOffset(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b || s == "on"
}
