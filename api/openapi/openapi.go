// Package openapi builds the Huma API that serves the ecofinder JSON
// endpoints, its OpenAPI 3.1 document at /openapi.json and the docs UI at
// /docs.
package openapi

import (
	"encoding/json"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/ecofinder/internal/api/handlers"
)

// Handlers groups the operations registered on the API.
type Handlers struct {
	Search   *handlers.SearchHandler
	Identity *handlers.IdentityHandler
	Quota    *handlers.QuotaHandler
}

// Config returns the Huma config used for the ecofinder API.
func Config(version string) huma.Config {
	cfg := huma.DefaultConfig("EcoFinder API", version)
	cfg.Info.Description = "Search MercadoLibre for products and flag the ecological ones. " +
		"Searches fall back through public, category, regional and query-variant strategies."
	return cfg
}

// New mounts the API on e and registers every operation in h.
func New(e *echo.Echo, version string, h Handlers) huma.API {
	api := humaecho.New(e, Config(version))
	handlers.RegisterSearchRoutes(api, h.Search)
	handlers.RegisterIdentityRoutes(api, h.Identity)
	handlers.RegisterQuotaRoutes(api, h.Quota)
	return api
}

// Document renders the OpenAPI document as "json" or "yaml" without
// starting a server.
func Document(version, format string) ([]byte, error) {
	api := New(echo.New(), version, Handlers{
		Search:   &handlers.SearchHandler{},
		Identity: &handlers.IdentityHandler{},
		Quota:    &handlers.QuotaHandler{},
	})

	switch format {
	case "json":
		out, err := json.MarshalIndent(api.OpenAPI(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding openapi json: %w", err)
		}
		return out, nil
	case "yaml":
		out, err := api.OpenAPI().YAML()
		if err != nil {
			return nil, fmt.Errorf("encoding openapi yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
