package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/donaldgifford/ecofinder/internal/config"
	"github.com/donaldgifford/ecofinder/internal/meli"
	"github.com/donaldgifford/ecofinder/internal/pipeline"
	"github.com/donaldgifford/ecofinder/internal/store"
	"github.com/donaldgifford/ecofinder/pkg/logger"
)

// app holds the components shared by the commands.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	store    store.CredentialStore
	tokens   *meli.TokenManager
	limiter  *meli.RateLimiter
	client   *meli.Client
	pipeline *pipeline.Pipeline
	catalog  *pipeline.Catalog
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	credStore, err := store.Open(ctx, store.Options{
		Backend:     cfg.Credentials.Backend,
		FilePath:    cfg.Credentials.File,
		DatabaseURL: cfg.Database.DSN(),
	})
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	m := cfg.Meli
	httpClient := &http.Client{Timeout: m.Timeout}

	tokenOpts := []meli.TokenOption{
		meli.WithSeedRefreshToken(m.RefreshToken),
		meli.WithTokenHTTPClient(httpClient),
		meli.WithTokenLogger(logger.Component(log, "tokens")),
	}
	if m.TokenURL != "" {
		tokenOpts = append(tokenOpts, meli.WithTokenURL(m.TokenURL))
	}
	tokens := meli.NewTokenManager(m.AppID, m.ClientSecret, credStore, tokenOpts...)

	limiter := meli.NewRateLimiter(m.RateLimit.PerSecond, m.RateLimit.Burst, m.RateLimit.DailyLimit)

	clientOpts := []meli.Option{
		meli.WithSite(m.Site),
		meli.WithHTTPClient(httpClient),
		meli.WithRateLimiter(limiter),
		meli.WithBackoff(m.BackoffBase, m.MaxRetries),
		meli.WithLogger(logger.Component(log, "meli")),
	}
	if m.BaseURL != "" {
		clientOpts = append(clientOpts, meli.WithBaseURL(m.BaseURL))
	}
	if m.UserAgent != "" {
		clientOpts = append(clientOpts, meli.WithUserAgent(m.UserAgent))
	}
	if m.AcceptLanguage != "" {
		clientOpts = append(clientOpts, meli.WithAcceptLanguage(m.AcceptLanguage))
	}
	client := meli.NewClient(tokens, clientOpts...)

	p := cfg.Pipeline
	pipe := pipeline.New(client,
		pipeline.WithSites(m.Site, m.FallbackSite),
		pipeline.WithLimits(p.DefaultLimit, p.MaxLimit),
		pipeline.WithCategoryTopN(p.CategoryTopN),
		pipeline.WithAlternateMode(p.AlternateMode, p.QueryVariants),
		pipeline.WithEcoOnly(p.EcoOnly),
		pipeline.WithLogger(logger.Component(log, "pipeline")),
	)

	return &app{
		cfg:      cfg,
		log:      log,
		store:    credStore,
		tokens:   tokens,
		limiter:  limiter,
		client:   client,
		pipeline: pipe,
		catalog:  pipeline.NewCatalog(client, m.Site, logger.Component(log, "catalog")),
	}, nil
}

func (a *app) Close() {
	a.store.Close()
}
