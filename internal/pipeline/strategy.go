package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/donaldgifford/ecofinder/internal/meli"
	"github.com/donaldgifford/ecofinder/pkg/eco"
	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

// Strategy names, as reported in Paging.Strategy and metrics.
const (
	NamePrimaryAuth       = "primary_auth"
	NamePublicRetry       = "public_retry"
	NameCategoryDiscovery = "category_discovery"
	NameRegionFallback    = "region_fallback"
	NameQueryVariant      = "query_variant"
)

// Attempt is one strategy invocation.
type Attempt struct {
	Site    string
	Query   string
	Limit   int
	Offset  int
	EcoOnly bool
}

// Outcome reports what a strategy tried last and what it found. Site and
// Query are set even when the strategy fails.
type Outcome struct {
	Products []domain.Product
	Total    int
	Limit    int
	Offset   int
	Site     string
	Query    string
	Strategy string
}

// Strategy is one step of the fallback chain. It returns an outcome with no
// products when it found nothing, and an error when the marketplace call
// failed.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, a Attempt) (*Outcome, error)
}

// PrimaryAuth is an authenticated search on the requested site.
type PrimaryAuth struct {
	Client Searcher
}

func (PrimaryAuth) Name() string { return NamePrimaryAuth }

func (s PrimaryAuth) Attempt(ctx context.Context, a Attempt) (*Outcome, error) {
	resp, err := s.Client.Search(ctx, a.request())
	return outcome(NamePrimaryAuth, a, resp), err
}

// PublicRetry repeats the search without credentials.
type PublicRetry struct {
	Client Searcher
}

func (PublicRetry) Name() string { return NamePublicRetry }

func (s PublicRetry) Attempt(ctx context.Context, a Attempt) (*Outcome, error) {
	resp, err := s.Client.PublicSearch(ctx, a.request())
	return outcome(NamePublicRetry, a, resp), err
}

// CategoryDiscovery maps the query to categories and searches each of the
// top TopN distinct categories in order, stopping at the first with results.
type CategoryDiscovery struct {
	Client Searcher
	TopN   int
	Logger *slog.Logger
}

func (CategoryDiscovery) Name() string { return NameCategoryDiscovery }

func (s CategoryDiscovery) Attempt(ctx context.Context, a Attempt) (*Outcome, error) {
	empty := outcome(NameCategoryDiscovery, a, nil)
	if s.TopN <= 0 {
		return empty, nil
	}

	suggestions, err := s.Client.DiscoverCategories(ctx, a.Site, a.Query, s.TopN*2)
	if err != nil {
		return empty, err
	}

	var lastErr error
	for _, categoryID := range topCategories(suggestions, s.TopN) {
		req := a.request()
		req.Query = ""
		req.CategoryID = categoryID

		resp, err := s.Client.Search(ctx, req)
		if err != nil {
			lastErr = err
			if s.Logger != nil {
				s.Logger.Debug("category search failed", "category", categoryID, "err", err)
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if out := outcome(NameCategoryDiscovery, a, resp); len(out.Products) > 0 {
			return out, nil
		}
	}

	return empty, lastErr
}

// RegionFallback runs Steps against another site.
type RegionFallback struct {
	Site  string
	Steps []Strategy
}

func (RegionFallback) Name() string { return NameRegionFallback }

func (s RegionFallback) Attempt(ctx context.Context, a Attempt) (*Outcome, error) {
	a.Site = s.Site
	return runSteps(ctx, NameRegionFallback, s.Steps, []Attempt{a})
}

// QueryVariant appends each variant to the query and runs Steps on every
// site in Sites.
type QueryVariant struct {
	Variants []string
	Sites    []string
	Steps    []Strategy
}

func (QueryVariant) Name() string { return NameQueryVariant }

func (s QueryVariant) Attempt(ctx context.Context, a Attempt) (*Outcome, error) {
	attempts := make([]Attempt, 0, len(s.Variants)*len(s.Sites))
	for _, v := range s.Variants {
		for _, site := range s.Sites {
			va := a
			va.Site = site
			va.Query = strings.TrimSpace(a.Query + " " + v)
			attempts = append(attempts, va)
		}
	}
	return runSteps(ctx, NameQueryVariant, s.Steps, attempts)
}

// runSteps tries every step for every attempt and returns the first outcome
// with products, labelled name/step.
func runSteps(ctx context.Context, name string, steps []Strategy, attempts []Attempt) (*Outcome, error) {
	var (
		last    *Outcome
		lastErr error
	)
	for _, a := range attempts {
		for _, step := range steps {
			out, err := step.Attempt(ctx, a)
			if out != nil {
				last = out
				if len(out.Products) > 0 {
					out.Strategy = name + "/" + out.Strategy
					return out, nil
				}
			}
			if err != nil {
				lastErr = err
			}
			if ctx.Err() != nil {
				return last, ctx.Err()
			}
		}
	}
	if last == nil && len(attempts) > 0 {
		last = outcome(name, attempts[len(attempts)-1], nil)
	}
	return last, lastErr
}

func (a Attempt) request() meli.SearchRequest {
	return meli.SearchRequest{
		Site:   a.Site,
		Query:  a.Query,
		Limit:  a.Limit,
		Offset: a.Offset,
	}
}

// outcome converts a search response, dropping non-ecological products when
// the attempt asks for it. A nil response yields an empty outcome.
func outcome(name string, a Attempt, resp *meli.SearchResponse) *Outcome {
	out := &Outcome{
		Limit:    a.Limit,
		Offset:   a.Offset,
		Site:     a.Site,
		Query:    a.Query,
		Strategy: name,
	}
	if resp == nil {
		return out
	}

	out.Products = meli.ToProducts(resp.Items)
	if a.EcoOnly {
		out.Products = eco.Filter(out.Products)
	}
	out.Total = resp.Total
	out.Limit = resp.Limit
	out.Offset = resp.Offset
	if resp.Site != "" {
		out.Site = resp.Site
	}
	return out
}

// topCategories returns up to n distinct category IDs in suggestion order.
func topCategories(suggestions []meli.CategorySuggestion, n int) []string {
	ids := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for _, s := range suggestions {
		if s.CategoryID == "" || seen[s.CategoryID] {
			continue
		}
		seen[s.CategoryID] = true
		ids = append(ids, s.CategoryID)
		if len(ids) == n {
			break
		}
	}
	return ids
}
