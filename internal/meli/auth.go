package meli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/donaldgifford/ecofinder/internal/metrics"
	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

const (
	defaultTokenURL  = "https://api.mercadolibre.com/oauth/token" //nolint:gosec // not a credential
	refreshBuffer    = 60 * time.Second
	defaultExpiresIn = 3600 * time.Second

	defaultFailureCooldown = 30 * time.Second
)

// TokenManager implements TokenProvider with the OAuth2 refresh_token grant.
// The credential is cached in memory and persisted through a CredentialStore.
// A token is never handed out within 60 seconds of its expiry. All refreshes
// are serialized. After a failed exchange, Token and Refresh return the same
// error without contacting the provider until the failure cooldown passes.
type TokenManager struct {
	clientID     string
	clientSecret string
	seedRefresh  string
	tokenURL     string
	client       *http.Client
	store        CredentialStore
	logger       *slog.Logger

	cooldown time.Duration

	mu          sync.Mutex
	cred        domain.Credential
	lastFailure error
	failedAt    time.Time
	nowFunc     func() time.Time // for testing
}

// TokenOption configures the TokenManager.
type TokenOption func(*TokenManager)

// WithTokenURL overrides the default OAuth2 token endpoint.
func WithTokenURL(u string) TokenOption {
	return func(m *TokenManager) {
		m.tokenURL = u
	}
}

// WithTokenHTTPClient overrides the HTTP client used for the token exchange.
func WithTokenHTTPClient(c *http.Client) TokenOption {
	return func(m *TokenManager) {
		m.client = c
	}
}

// WithSeedRefreshToken sets the refresh token used when the store holds none.
func WithSeedRefreshToken(rt string) TokenOption {
	return func(m *TokenManager) {
		m.seedRefresh = rt
	}
}

// WithFailureCooldown sets how long a failed exchange is reported without
// retrying it. Zero disables the cooldown.
func WithFailureCooldown(d time.Duration) TokenOption {
	return func(m *TokenManager) {
		m.cooldown = d
	}
}

// WithTokenLogger sets the logger.
func WithTokenLogger(l *slog.Logger) TokenOption {
	return func(m *TokenManager) {
		m.logger = l
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) TokenOption {
	return func(m *TokenManager) {
		m.nowFunc = f
	}
}

// NewTokenManager creates a token manager for the given application
// credentials, persisting through store.
func NewTokenManager(
	clientID, clientSecret string,
	store CredentialStore,
	opts ...TokenOption,
) *TokenManager {
	m := &TokenManager{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		client:       &http.Client{Timeout: 10 * time.Second},
		store:        store,
		logger:       slog.New(slog.DiscardHandler),
		cooldown:     defaultFailureCooldown,
		nowFunc:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Token returns a valid access token, refreshing if necessary.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cred.Valid(m.nowFunc(), refreshBuffer) {
		return m.cred.AccessToken, nil
	}
	if err := m.recentFailureLocked(); err != nil {
		return "", err
	}

	return m.refreshLocked(ctx, "")
}

// AuthHeader returns the Authorization header value for a valid token.
func (m *TokenManager) AuthHeader(ctx context.Context) (string, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return "", err
	}
	return "Bearer " + token, nil
}

// Refresh replaces a token the API rejected. When another caller already
// replaced it, the current token is returned without a new exchange.
func (m *TokenManager) Refresh(ctx context.Context, rejected string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cred.AccessToken != rejected && m.cred.Valid(m.nowFunc(), refreshBuffer) {
		return m.cred.AccessToken, nil
	}
	if err := m.recentFailureLocked(); err != nil {
		return "", err
	}

	return m.refreshLocked(ctx, rejected)
}

// ForceRefresh exchanges the refresh token even if the current access token
// is still valid. It keeps a rarely used refresh token from going stale. The
// failure cooldown does not apply.
func (m *TokenManager) ForceRefresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rejected := m.cred.AccessToken
	if rejected == "" {
		// Nothing cached yet; make sure a persisted token is not adopted.
		err := m.store.Update(ctx, func(c *domain.Credential) error {
			rejected = c.AccessToken
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("%w: reading credential: %w", ErrCredentialStore, err)
		}
	}

	return m.refreshLocked(ctx, rejected)
}

// Expiry returns the expiry of the cached access token, zero if none.
func (m *TokenManager) Expiry() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred.ExpiresAt
}

// recentFailureLocked returns the last exchange failure while it is inside
// the cooldown window.
func (m *TokenManager) recentFailureLocked() error {
	if m.lastFailure == nil || m.cooldown <= 0 {
		return nil
	}
	if m.nowFunc().Sub(m.failedAt) >= m.cooldown {
		return nil
	}
	return m.lastFailure
}

// refreshLocked adopts or exchanges a credential inside one store Update.
// The in-memory credential changes only after the store saved it.
func (m *TokenManager) refreshLocked(ctx context.Context, rejected string) (string, error) {
	var (
		next    domain.Credential
		adopted bool
	)

	err := m.store.Update(ctx, func(c *domain.Credential) error {
		now := m.nowFunc()
		if c.AccessToken != rejected && c.Valid(now, refreshBuffer) {
			next = *c
			adopted = true
			return nil
		}

		refreshToken := c.RefreshToken
		if refreshToken == "" {
			refreshToken = m.seedRefresh
		}
		if refreshToken == "" {
			return &AuthError{Err: ErrNoRefreshToken}
		}

		tok, err := m.exchange(ctx, refreshToken)
		if err != nil {
			return &AuthError{Err: err}
		}

		c.AccessToken = tok.AccessToken
		if tok.RefreshToken != "" {
			c.RefreshToken = tok.RefreshToken
		} else {
			c.RefreshToken = refreshToken
		}
		c.ExpiresAt = now.Add(expiresIn(tok))

		next = *c
		return nil
	})
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		if IsAuthError(err) {
			m.lastFailure = err
			m.failedAt = m.nowFunc()
			return "", err
		}
		return "", fmt.Errorf("%w: saving credential: %w", ErrCredentialStore, err)
	}

	m.cred = next
	m.lastFailure = nil

	if adopted {
		metrics.TokenRefreshesTotal.WithLabelValues("adopted").Inc()
		m.logger.Debug("adopted persisted access token", "expires_at", m.cred.ExpiresAt)
	} else {
		metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
		m.logger.Info("access token refreshed", "expires_at", m.cred.ExpiresAt)
	}
	metrics.TokenExpiryTimestamp.Set(float64(m.cred.ExpiresAt.Unix()))

	return m.cred.AccessToken, nil
}

func (m *TokenManager) exchange(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	cfg := &oauth2.Config{
		ClientID:     m.clientID,
		ClientSecret: m.clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  m.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.client)
	tok, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) && rErr.Response != nil {
			return nil, fmt.Errorf(
				"token request failed (status %d): %s - %s",
				rErr.Response.StatusCode,
				rErr.ErrorCode,
				rErr.ErrorDescription,
			)
		}
		return nil, fmt.Errorf("executing token request: %w", err)
	}

	return tok, nil
}

// expiresIn reads the token lifetime reported by the provider.
func expiresIn(tok *oauth2.Token) time.Duration {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		if v > 0 {
			return time.Duration(v) * time.Second
		}
	case json.Number:
		if n, err := v.Int64(); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	if !tok.Expiry.IsZero() {
		if d := time.Until(tok.Expiry); d > 0 {
			return d
		}
	}
	return defaultExpiresIn
}
