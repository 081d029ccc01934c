package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

type mockServer struct {
	fixture      *fixture
	logger       *slog.Logger
	expiresIn    int
	publicSearch bool

	mu            sync.Mutex
	seq           int
	accessTokens  map[string]bool
	refreshTokens map[string]bool
}

type serverOption func(*mockServer)

func withExpiresIn(seconds int) serverOption {
	return func(s *mockServer) {
		s.expiresIn = seconds
	}
}

func withPublicSearch(enabled bool) serverOption {
	return func(s *mockServer) {
		s.publicSearch = enabled
	}
}

func newMockServer(f *fixture, logger *slog.Logger, opts ...serverOption) *mockServer {
	s := &mockServer{
		fixture:       f,
		logger:        logger,
		expiresIn:     21600,
		publicSearch:  true,
		accessTokens:  make(map[string]bool),
		refreshTokens: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *mockServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", s.handleToken)
	mux.HandleFunc("GET /sites/{site}/search", s.handleSearch)
	mux.HandleFunc("GET /sites/{site}/domain_discovery/search", s.requireAuth(s.handleDiscovery))
	mux.HandleFunc("GET /products/search", s.requireAuth(s.handleCatalogSearch))
	mux.HandleFunc("GET /products/{id}", s.requireAuth(s.handleProduct))
	mux.HandleFunc("GET /products/{id}/items", s.requireAuth(s.handleProductItems))
	mux.HandleFunc("GET /users/me", s.requireAuth(s.handleMe))
	return mux
}

// handleToken implements the refresh_token grant. Any refresh token is
// accepted the first time except "revoked"; issued refresh tokens rotate
// and can be used once.
func (s *mockServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed form body")
		return
	}

	if r.PostForm.Get("grant_type") != "refresh_token" {
		writeError(w, http.StatusBadRequest, "unsupported_grant_type", "only refresh_token is supported")
		return
	}
	if r.PostForm.Get("client_id") == "" || r.PostForm.Get("client_secret") == "" {
		writeError(w, http.StatusUnauthorized, "invalid_client", "client authentication failed")
		return
	}

	refresh := r.PostForm.Get("refresh_token")

	s.mu.Lock()
	used, issued := s.refreshTokens[refresh]
	if refresh == "" || refresh == "revoked" || (issued && used) {
		s.mu.Unlock()
		s.logger.Warn("rejected refresh token", "refresh_token", refresh)
		writeError(w, http.StatusBadRequest, "invalid_grant", "Error validating grant. Your authorization code or refresh token may be expired or it was already used")
		return
	}
	s.refreshTokens[refresh] = true
	s.seq++
	access := fmt.Sprintf("APP_USR-mock-%d", s.seq)
	next := fmt.Sprintf("TG-mock-%d", s.seq)
	s.accessTokens[access] = true
	s.refreshTokens[next] = false
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  access,
		"token_type":    "Bearer",
		"expires_in":    s.expiresIn,
		"scope":         "offline_access read",
		"user_id":       123456789,
		"refresh_token": next,
	})
	s.logger.Info("issued mock token", "access_token", access)
}

func (s *mockServer) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessTokens[token]
}

func (s *mockServer) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid access token")
			return
		}
		next(w, r)
	}
}

func (s *mockServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "" {
		if !s.authorized(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid access token")
			return
		}
	} else if !s.publicSearch {
		writeError(w, http.StatusForbidden, "forbidden", "public search is disabled")
		return
	}

	site := r.PathValue("site")
	q := r.URL.Query().Get("q")
	categoryID := r.URL.Query().Get("category")
	limit := intParam(r, "limit", 50)
	offset := intParam(r, "offset", 0)

	matched := make([]json.RawMessage, 0)
	for _, item := range s.fixture.Items {
		if item.SiteID != site {
			continue
		}
		if categoryID != "" && item.CategoryID != categoryID {
			continue
		}
		if q != "" && !matches(item.Title, q) {
			continue
		}
		matched = append(matched, item.Raw)
	}

	total := len(matched)
	if offset >= len(matched) {
		matched = []json.RawMessage{}
	} else {
		matched = matched[offset:min(offset+limit, len(matched))]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site_id": site,
		"query":   q,
		"results": matched,
		"paging": map[string]int{
			"total":  total,
			"offset": offset,
			"limit":  limit,
		},
	})
	s.logger.Info("search", "site", site, "query", q, "category", categoryID, "matched", total)
}

func (s *mockServer) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	site := r.PathValue("site")
	q := r.URL.Query().Get("q")
	limit := intParam(r, "limit", 4)

	seen := make(map[string]bool)
	out := make([]map[string]string, 0)
	for _, item := range s.fixture.Items {
		if len(out) >= limit {
			break
		}
		if item.SiteID != site || seen[item.CategoryID] {
			continue
		}
		cat, ok := s.fixture.Categories[item.CategoryID]
		if !ok || !(matches(item.Title, q) || matches(cat.DomainName, q)) {
			continue
		}
		seen[item.CategoryID] = true
		out = append(out, map[string]string{
			"domain_id":     cat.DomainID,
			"domain_name":   cat.DomainName,
			"category_id":   item.CategoryID,
			"category_name": cat.Name,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *mockServer) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	site := r.URL.Query().Get("site_id")
	q := r.URL.Query().Get("q")
	limit := intParam(r, "limit", 10)

	results := make([]json.RawMessage, 0)
	for _, p := range s.fixture.Products {
		if len(results) >= limit {
			break
		}
		if p.SiteID == site && matches(p.Name, q) {
			results = append(results, p.Raw)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"keywords": q,
		"paging":   map[string]int{"total": len(results), "limit": limit},
		"results":  results,
	})
}

func (s *mockServer) handleProduct(w http.ResponseWriter, r *http.Request) {
	p := s.product(r.PathValue("id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	writeJSON(w, http.StatusOK, p.Raw)
}

func (s *mockServer) handleProductItems(w http.ResponseWriter, r *http.Request) {
	p := s.product(r.PathValue("id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if len(p.Items) == 0 {
		// The real API answers 404 for a product without active listings.
		writeError(w, http.StatusNotFound, "not_found", "no winners found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"paging":  map[string]int{"total": len(p.Items)},
		"results": p.Items,
	})
}

func (s *mockServer) handleMe(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.fixture.User)
}

func (s *mockServer) product(id string) *fixtureProduct {
	for i := range s.fixture.Products {
		if s.fixture.Products[i].ID == id {
			return &s.fixture.Products[i]
		}
	}
	return nil
}

func intParam(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}
