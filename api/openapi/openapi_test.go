package openapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/ecofinder/internal/api/handlers"
)

func TestDocument_JSON(t *testing.T) {
	t.Parallel()

	out, err := Document("1.2.3", "json")
	require.NoError(t, err)

	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))

	assert.Equal(t, "EcoFinder API", doc.Info.Title)
	assert.Equal(t, "1.2.3", doc.Info.Version)
	assert.Contains(t, doc.OpenAPI, "3.1")
	for _, path := range []string{"/api/v1/search", "/api/v1/ml/health", "/api/v1/quota"} {
		assert.Contains(t, doc.Paths, path)
	}
}

func TestDocument_YAML(t *testing.T) {
	t.Parallel()

	out, err := Document("dev", "yaml")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Contains(t, doc, "paths")
}

func TestDocument_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := Document("dev", "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestNew_ServesSpec(t *testing.T) {
	t.Parallel()

	e := echo.New()
	New(e, "dev", Handlers{
		Search:   &handlers.SearchHandler{},
		Identity: &handlers.IdentityHandler{},
		Quota:    &handlers.QuotaHandler{},
	})

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "search-products")
}
