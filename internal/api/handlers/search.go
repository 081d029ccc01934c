package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/ecofinder/internal/pipeline"
	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

// Searcher runs a search through the fallback pipeline.
type Searcher interface {
	Search(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// SearchHandler serves the JSON search API.
type SearchHandler struct {
	pipeline Searcher
	log      *slog.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(p Searcher, log *slog.Logger) *SearchHandler {
	return &SearchHandler{pipeline: p, log: log}
}

// SearchInput holds the query parameters of the search endpoint.
type SearchInput struct {
	Query  string `query:"q"      required:"true" minLength:"1" maxLength:"200" doc:"Search text"                      example:"botella reutilizable"`
	Offset int    `query:"offset" minimum:"0"     maximum:"10000"               doc:"Result offset"                    example:"0"`
	Limit  int    `query:"limit"  minimum:"0"     maximum:"50"                  doc:"Page size (0 uses the default)" example:"24"`
	Site   string `query:"site"   pattern:"^[A-Za-z]{3}$"                       doc:"MercadoLibre site id"             example:"MLC"`
	Eco    bool   `query:"eco"                                                  doc:"Only return ecological products"`
}

// SearchBody is the JSON body of a search response.
type SearchBody struct {
	OK      bool             `json:"ok"                doc:"False when the search failed upstream"`
	Error   string           `json:"error,omitempty"   doc:"Failure reason when ok is false"`
	Paging  domain.Paging    `json:"paging"            doc:"Paging and fallback diagnostics"`
	Results []domain.Product `json:"results"           doc:"Matching products"`
}

// SearchOutput is the response of the search endpoint.
type SearchOutput struct {
	Body SearchBody
}

// Search runs the query through the fallback pipeline. An upstream
// credential failure is reported in the body with ok=false.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	res, err := h.pipeline.Search(ctx, pipeline.Request{
		Query:   input.Query,
		Site:    input.Site,
		Limit:   input.Limit,
		Offset:  input.Offset,
		EcoOnly: input.Eco,
	})
	if errors.Is(err, pipeline.ErrInvalidRequest) {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	if res == nil {
		return nil, huma.Error502BadGateway("search failed", err)
	}

	out := &SearchOutput{}
	out.Body.OK = err == nil
	out.Body.Paging = res.Paging
	out.Body.Results = res.Products
	if err != nil {
		h.log.Warn("search failed", "query", input.Query, "err", err)
		out.Body.Error = err.Error()
	}
	return out, nil
}

// RegisterSearchRoutes registers search endpoints with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search MercadoLibre products",
		Description: "Runs the query through the fallback strategies and returns the first non-empty result set.",
		Tags:        []string{"search"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusBadGateway},
	}, h.Search)
}
