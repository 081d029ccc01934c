// Package pipeline runs marketplace searches through an ordered chain of
// fallback strategies and returns the first non-empty result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/donaldgifford/ecofinder/internal/meli"
	"github.com/donaldgifford/ecofinder/internal/metrics"
	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

const (
	defaultPrimarySite  = "MLC"
	defaultFallbackSite = "MLA"
	defaultLimit        = 24
	defaultMaxLimit     = 50
	defaultCategoryTopN = 3

	// StrategyExhausted labels a result no strategy could fill.
	StrategyExhausted = "exhausted"
)

// ErrInvalidRequest is returned for a request that fails validation.
var ErrInvalidRequest = errors.New("invalid search request")

// DefaultQueryVariants are appended to the query in alternate mode.
var DefaultQueryVariants = []string{"reutilizable", "ecológico"}

// Searcher is the subset of the marketplace client used by the strategies.
type Searcher interface {
	Search(ctx context.Context, req meli.SearchRequest) (*meli.SearchResponse, error)
	PublicSearch(ctx context.Context, req meli.SearchRequest) (*meli.SearchResponse, error)
	DiscoverCategories(ctx context.Context, site, query string, limit int) ([]meli.CategorySuggestion, error)
}

// Request is a single search as asked for by a caller.
type Request struct {
	Query   string `json:"query" validate:"required,max=200"`
	Site    string `json:"site,omitempty" validate:"omitempty,len=3,alpha"`
	Limit   int    `json:"limit" validate:"gte=0"`
	Offset  int    `json:"offset" validate:"gte=0,lte=10000"`
	EcoOnly bool   `json:"eco_only"`
}

// Result is the outcome of a search. Products is empty, never nil, when
// every strategy came back empty.
type Result struct {
	Products []domain.Product `json:"results"`
	Paging   domain.Paging    `json:"paging"`
}

// Pipeline runs the search strategies in order.
type Pipeline struct {
	client        Searcher
	primarySite   string
	fallbackSite  string
	defaultLimit  int
	maxLimit      int
	categoryTopN  int
	alternateMode bool
	variants      []string
	ecoOnly       bool
	logger        *slog.Logger
	validate      *validator.Validate
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithSites sets the primary site and the fallback site tried when the
// primary comes back empty.
func WithSites(primary, fallback string) Option {
	return func(p *Pipeline) {
		if primary != "" {
			p.primarySite = primary
		}
		p.fallbackSite = fallback
	}
}

// WithLimits sets the page size used when a request gives none, and the cap.
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(p *Pipeline) {
		if defaultLimit > 0 {
			p.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			p.maxLimit = maxLimit
		}
	}
}

// WithCategoryTopN sets how many discovered categories are searched.
func WithCategoryTopN(n int) Option {
	return func(p *Pipeline) {
		p.categoryTopN = n
	}
}

// WithAlternateMode enables the query variant strategy. A nil variants
// slice keeps DefaultQueryVariants.
func WithAlternateMode(enabled bool, variants []string) Option {
	return func(p *Pipeline) {
		p.alternateMode = enabled
		if variants != nil {
			p.variants = variants
		}
	}
}

// WithEcoOnly filters every request to ecological products.
func WithEcoOnly(enabled bool) Option {
	return func(p *Pipeline) {
		p.ecoOnly = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New creates a search pipeline over client.
func New(client Searcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:       client,
		primarySite:  defaultPrimarySite,
		fallbackSite: defaultFallbackSite,
		defaultLimit: defaultLimit,
		maxLimit:     defaultMaxLimit,
		categoryTopN: defaultCategoryTopN,
		variants:     DefaultQueryVariants,
		logger:       slog.New(slog.DiscardHandler),
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PrimarySite returns the site searched when a request names none.
func (p *Pipeline) PrimarySite() string {
	return p.primarySite
}

// Strategies returns the strategy chain for a search on site, in the order
// it runs.
func (p *Pipeline) Strategies(site string) []Strategy {
	base := []Strategy{
		PrimaryAuth{Client: p.client},
		PublicRetry{Client: p.client},
		CategoryDiscovery{Client: p.client, TopN: p.categoryTopN, Logger: p.logger},
	}

	chain := append([]Strategy(nil), base...)
	if p.fallbackSite != "" && !strings.EqualFold(site, p.fallbackSite) {
		chain = append(chain, RegionFallback{Site: p.fallbackSite, Steps: base})
	}

	if p.alternateMode && len(p.variants) > 0 {
		sites := []string{site}
		if p.fallbackSite != "" && !strings.EqualFold(site, p.fallbackSite) {
			sites = append(sites, p.fallbackSite)
		}
		chain = append(chain, QueryVariant{
			Variants: p.variants,
			Sites:    sites,
			Steps:    base[:2],
		})
	}

	return chain
}

// Search runs the strategies in order and returns the first non-empty
// result. Exhausting every strategy is not an error: the result is empty
// with paging describing the last attempt. The error is non-nil only for an
// invalid request, or when the last strategy failure was a credential
// exchange failure; the result is non-nil either way.
func (p *Pipeline) Search(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	defer func() {
		metrics.PipelineSearchDuration.Observe(time.Since(start).Seconds())
	}()

	req = p.normalize(req)
	empty := &Result{
		Products: []domain.Product{},
		Paging: domain.Paging{
			Limit:      req.Limit,
			Offset:     req.Offset,
			RegionUsed: req.Site,
			UsedQuery:  req.Query,
			Strategy:   StrategyExhausted,
		},
	}

	if err := p.validate.Struct(req); err != nil {
		return empty, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	attempt := Attempt{
		Site:    req.Site,
		Query:   req.Query,
		Limit:   req.Limit,
		Offset:  req.Offset,
		EcoOnly: req.EcoOnly || p.ecoOnly,
	}

	var lastErr error
	for _, s := range p.Strategies(req.Site) {
		out, err := s.Attempt(ctx, attempt)
		if out != nil {
			empty.Paging.RegionUsed = out.Site
			empty.Paging.UsedQuery = out.Query
		}

		switch {
		case out != nil && len(out.Products) > 0:
			metrics.PipelineStrategyTotal.WithLabelValues(s.Name(), "hit").Inc()
			p.logger.Debug("search strategy hit",
				"strategy", out.Strategy,
				"site", out.Site,
				"query", out.Query,
				"results", len(out.Products),
			)
			return &Result{
				Products: out.Products,
				Paging: domain.Paging{
					Total:        out.Total,
					Limit:        out.Limit,
					Offset:       out.Offset,
					RegionUsed:   out.Site,
					UsedFallback: !strings.EqualFold(out.Site, req.Site),
					UsedQuery:    out.Query,
					Strategy:     out.Strategy,
				},
			}, nil

		case err != nil:
			metrics.PipelineStrategyTotal.WithLabelValues(s.Name(), "error").Inc()
			lastErr = err
			p.logger.Debug("search strategy failed", "strategy", s.Name(), "err", err)

		default:
			metrics.PipelineStrategyTotal.WithLabelValues(s.Name(), "empty").Inc()
		}

		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
	}

	metrics.PipelineExhaustedTotal.Inc()
	empty.Paging.UsedFallback = !strings.EqualFold(empty.Paging.RegionUsed, req.Site)

	if lastErr != nil {
		p.logger.Warn("search exhausted every strategy",
			"query", req.Query,
			"site", req.Site,
			"last_site", empty.Paging.RegionUsed,
			"err", lastErr,
		)
		if meli.IsAuthError(lastErr) {
			return empty, lastErr
		}
	} else {
		p.logger.Info("search exhausted every strategy", "query", req.Query, "site", req.Site)
	}

	return empty, nil
}

func (p *Pipeline) normalize(req Request) Request {
	req.Query = strings.TrimSpace(req.Query)
	req.Site = strings.ToUpper(strings.TrimSpace(req.Site))
	if req.Site == "" {
		req.Site = p.primarySite
	}
	if req.Limit <= 0 {
		req.Limit = p.defaultLimit
	}
	req.Limit = min(req.Limit, p.maxLimit)
	return req
}
