package meli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/ecofinder/internal/metrics"
)

const (
	defaultBaseURL        = "https://api.mercadolibre.com"
	defaultSite           = "MLC"
	defaultMaxRetries     = 2
	defaultBackoffBase    = 1200 * time.Millisecond
	defaultAcceptLanguage = "es-CL,es;q=0.9,en;q=0.8"
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	maxErrorBody = 512
)

// Client talks to the MercadoLibre REST API. Authenticated calls take their
// bearer token from a TokenProvider; a rejected token is refreshed once per
// call. 429 and 503 responses are retried with linear backoff.
type Client struct {
	tokens         TokenProvider
	baseURL        string
	site           string
	client         *http.Client
	rateLimiter    *RateLimiter
	maxRetries     int
	backoffBase    time.Duration
	userAgent      string
	acceptLanguage string
	logger         *slog.Logger
	sleep          func(ctx context.Context, d time.Duration) error
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithSite sets the site used when a request does not name one.
func WithSite(site string) Option {
	return func(c *Client) {
		c.site = site
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimiter makes every outbound call wait on r first.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// WithBackoff sets the retry budget for 429/503/network failures and the
// base delay; attempt n waits base*n.
func WithBackoff(base time.Duration, maxRetries int) Option {
	return func(c *Client) {
		c.backoffBase = base
		c.maxRetries = maxRetries
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithAcceptLanguage overrides the Accept-Language header.
func WithAcceptLanguage(lang string) Option {
	return func(c *Client) {
		c.acceptLanguage = lang
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a MercadoLibre API client. tokens may be nil when only
// public endpoints are used.
func NewClient(tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		tokens:         tokens,
		baseURL:        defaultBaseURL,
		site:           defaultSite,
		client:         &http.Client{Timeout: 12 * time.Second},
		maxRetries:     defaultMaxRetries,
		backoffBase:    defaultBackoffBase,
		userAgent:      defaultUserAgent,
		acceptLanguage: defaultAcceptLanguage,
		logger:         slog.New(slog.DiscardHandler),
		sleep:          sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Site returns the default site of the client.
func (c *Client) Site() string {
	return c.site
}

// call describes one logical API request.
type call struct {
	endpoint string // metrics label
	path     string
	query    url.Values
	auth     bool
}

// get executes a GET request, decoding a 2xx body into dst. It refreshes a
// rejected token once and retries retryable failures up to maxRetries times.
func (c *Client) get(ctx context.Context, cl call, dst any) error {
	var (
		retries   int
		refreshed bool
	)

	for {
		status, body, token, err := c.send(ctx, cl)
		if err != nil {
			if IsAuthError(err) || errors.Is(err, ErrCredentialStore) ||
				errors.Is(err, ErrDailyLimitReached) || ctx.Err() != nil {
				return err
			}
			err = &TransientError{Err: err}
		} else {
			switch {
			case status >= 200 && status < 300:
				if err := json.Unmarshal(body, dst); err != nil {
					return fmt.Errorf("parsing %s response: %w", cl.endpoint, err)
				}
				return nil

			case isAuthStatus(status) && cl.auth && !refreshed:
				refreshed = true
				metrics.MeliRetriesTotal.WithLabelValues("auth").Inc()
				if _, err := c.tokens.Refresh(ctx, token); err != nil {
					return asAuthError(err)
				}
				c.logger.Info("access token refreshed after rejection",
					"endpoint", cl.endpoint,
					"status", status,
				)
				continue

			case isRetryableStatus(status):
				err = &TransientError{
					StatusCode: status,
					Err:        &StatusError{StatusCode: status, Body: truncateBody(body)},
				}

			default:
				return &StatusError{StatusCode: status, Body: truncateBody(body)}
			}
		}

		if retries >= c.maxRetries {
			return err
		}
		retries++

		reason := "network"
		var tErr *TransientError
		if errors.As(err, &tErr) && tErr.StatusCode != 0 {
			reason = strconv.Itoa(tErr.StatusCode)
		}
		metrics.MeliRetriesTotal.WithLabelValues(reason).Inc()

		delay := c.backoffBase * time.Duration(retries)
		c.logger.Debug("retrying MercadoLibre request",
			"endpoint", cl.endpoint,
			"attempt", retries,
			"delay", delay,
			"err", err,
		)
		if err := c.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// send performs a single HTTP round trip and returns the status, the body and
// the bearer token used (empty for public calls).
func (c *Client) send(ctx context.Context, cl call) (int, []byte, string, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.MeliDailyLimitHits.Inc()
			}
			return 0, nil, "", fmt.Errorf("rate limit: %w", err)
		}
		metrics.MeliDailyUsage.Set(float64(c.rateLimiter.Quota().Used))
	}

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return 0, nil, "", fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", c.acceptLanguage)

	var token string
	if cl.auth {
		if c.tokens == nil {
			return 0, nil, "", &AuthError{Err: errors.New("no token provider configured")}
		}
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return 0, nil, "", asAuthError(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.MeliAPICallsTotal.WithLabelValues(cl.endpoint, "error").Inc()
		return 0, nil, token, fmt.Errorf("executing %s request: %w", cl.endpoint, err)
	}
	defer resp.Body.Close()

	metrics.MeliAPICallsTotal.WithLabelValues(cl.endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, token, fmt.Errorf("reading %s response: %w", cl.endpoint, err)
	}

	return resp.StatusCode, body, token, nil
}

func (c *Client) siteOrDefault(site string) string {
	if site == "" {
		return c.site
	}
	return site
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
