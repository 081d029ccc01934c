package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/donaldgifford/ecofinder/internal/api/handlers"
	"github.com/donaldgifford/ecofinder/internal/api/handlers/mocks"
	"github.com/donaldgifford/ecofinder/internal/pipeline"
	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

func servePage(
	t *testing.T,
	target string,
	setup func(*mocks.MockSearcher, *mocks.MockCatalogLookup),
) *httptest.ResponseRecorder {
	t.Helper()

	s := mocks.NewMockSearcher(t)
	c := mocks.NewMockCatalogLookup(t)
	setup(s, c)

	e := echo.New()
	handlers.RegisterPageRoutes(e, handlers.NewPageHandler(s, c, quietLogger()))

	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPageHandler_Search(t *testing.T) {
	t.Parallel()

	result := &pipeline.Result{
		Products: []domain.Product{{ID: "MLC1", Title: "Mouse inalámbrico"}},
		Paging:   domain.Paging{Total: 3, Limit: 24, RegionUsed: "MLC", UsedQuery: "mouse"},
	}

	tests := []struct {
		name       string
		target     string
		setup      func(*mocks.MockSearcher, *mocks.MockCatalogLookup)
		wantStatus int
		wantBody   []string
	}{
		{
			name:   "home defaults to mouse",
			target: "/",
			setup: func(s *mocks.MockSearcher, _ *mocks.MockCatalogLookup) {
				s.EXPECT().
					Search(mock.Anything, pipeline.Request{Query: "mouse"}).
					Return(result, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{"Mouse inalámbrico", `value="mouse"`},
		},
		{
			name:   "search passes offset and eco flag",
			target: "/search?q=botella&offset=24&eco=on",
			setup: func(s *mocks.MockSearcher, _ *mocks.MockCatalogLookup) {
				s.EXPECT().
					Search(mock.Anything, pipeline.Request{Query: "botella", Offset: 24, EcoOnly: true}).
					Return(result, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{" checked>"},
		},
		{
			name:   "bad offset is ignored",
			target: "/search?q=botella&offset=abc",
			setup: func(s *mocks.MockSearcher, _ *mocks.MockCatalogLookup) {
				s.EXPECT().
					Search(mock.Anything, pipeline.Request{Query: "botella"}).
					Return(result, nil).
					Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty search renders the form only",
			target:     "/search",
			setup:      func(*mocks.MockSearcher, *mocks.MockCatalogLookup) {},
			wantStatus: http.StatusOK,
			wantBody:   []string{`<form class="search"`},
		},
		{
			name:   "credential failure renders error",
			target: "/search?q=tijeras",
			setup: func(s *mocks.MockSearcher, _ *mocks.MockCatalogLookup) {
				s.EXPECT().
					Search(mock.Anything, mock.Anything).
					Return(&pipeline.Result{Products: []domain.Product{}}, errors.New("credential exchange failed")).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`class="error"`, "credential exchange failed"},
		},
		{
			name:   "invalid request renders 400",
			target: "/search?q=x&site=CHILE",
			setup: func(s *mocks.MockSearcher, _ *mocks.MockCatalogLookup) {
				s.EXPECT().
					Search(mock.Anything, mock.Anything).
					Return(&pipeline.Result{}, fmt.Errorf("%w: site", pipeline.ErrInvalidRequest)).
					Once()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{"invalid search request"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := servePage(t, tt.target, tt.setup)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
			for _, want := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestPageHandler_Products(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		target   string
		setup    func(*mocks.MockSearcher, *mocks.MockCatalogLookup)
		wantBody []string
	}{
		{
			name:   "lookup renders products",
			target: "/search/products?q=termo&site=mla",
			setup: func(_ *mocks.MockSearcher, c *mocks.MockCatalogLookup) {
				c.EXPECT().
					Lookup(mock.Anything, "MLA", "termo", 0).
					Return([]domain.Product{{Title: "Termo de acero", Price: 25000, Currency: "ARS"}}, nil).
					Once()
			},
			wantBody: []string{"Termo de acero", "$ 25.000 ARS"},
		},
		{
			name:   "lookup failure renders error",
			target: "/search/products?q=termo",
			setup: func(_ *mocks.MockSearcher, c *mocks.MockCatalogLookup) {
				c.EXPECT().
					Lookup(mock.Anything, "", "termo", 0).
					Return(nil, errors.New("catalog lookup: unexpected status 500")).
					Once()
			},
			wantBody: []string{"No pudimos consultar el catálogo"},
		},
		{
			name:     "no query skips lookup",
			target:   "/search/products",
			setup:    func(*mocks.MockSearcher, *mocks.MockCatalogLookup) {},
			wantBody: []string{`action="/search/products"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := servePage(t, tt.target, tt.setup)
			assert.Equal(t, http.StatusOK, rec.Code)
			for _, want := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestPageHandler_EcoTips(t *testing.T) {
	t.Parallel()

	rec := servePage(t, "/eco-tips", func(*mocks.MockSearcher, *mocks.MockCatalogLookup) {})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Consejos para comprar sustentable")
}
