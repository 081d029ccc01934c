// Package scheduler runs the periodic credential keep-alive.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/ecofinder/internal/notify"
)

// Refresher forces a credential exchange. *meli.TokenManager implements it.
type Refresher interface {
	ForceRefresh(ctx context.Context) (string, error)
	Expiry() time.Time
}

const refreshTimeout = 30 * time.Second

// Scheduler keeps the MercadoLibre refresh token alive by exchanging it on
// a fixed interval. Refresh tokens that sit unused for months are revoked
// by the provider.
type Scheduler struct {
	cron     *cron.Cron
	tokens   Refresher
	notifier notify.Notifier
	site     string
	log      *slog.Logger
	nowFunc  func() time.Time

	mu      sync.Mutex
	failing bool
}

// New creates a Scheduler that refreshes tokens every interval.
func New(
	tokens Refresher,
	interval time.Duration,
	notifier notify.Notifier,
	site string,
	log *slog.Logger,
) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.New("keep-alive interval must be positive")
	}

	s := &Scheduler{
		cron:     cron.New(),
		tokens:   tokens,
		notifier: notifier,
		site:     site,
		log:      log,
		nowFunc:  time.Now,
	}

	if _, err := s.cron.AddFunc("@every "+interval.String(), s.runKeepAlive); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "entries", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// RunKeepAlive performs one refresh immediately. The cron job calls it on
// every tick; callers use it to validate the credential at startup.
func (s *Scheduler) RunKeepAlive(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	if _, err := s.tokens.ForceRefresh(ctx); err != nil {
		s.log.Error("token keep-alive failed", "error", err)
		s.onFailure(ctx, err)
		return err
	}

	s.log.Info("token keep-alive succeeded", "expires_at", s.tokens.Expiry())
	s.onSuccess(ctx)
	return nil
}

func (s *Scheduler) runKeepAlive() {
	_ = s.RunKeepAlive(context.Background())
}

func (s *Scheduler) onFailure(ctx context.Context, err error) {
	s.mu.Lock()
	s.failing = true
	s.mu.Unlock()

	event := &notify.AuthEvent{
		Site:       s.site,
		Error:      err.Error(),
		ExpiresAt:  s.tokens.Expiry(),
		OccurredAt: s.nowFunc(),
	}
	if nerr := s.notifier.SendAuthFailure(ctx, event); nerr != nil {
		s.log.Warn("sending auth failure notification", "error", nerr)
	}
}

func (s *Scheduler) onSuccess(ctx context.Context) {
	s.mu.Lock()
	recovered := s.failing
	s.failing = false
	s.mu.Unlock()

	if !recovered {
		return
	}

	event := &notify.AuthEvent{
		Site:       s.site,
		ExpiresAt:  s.tokens.Expiry(),
		OccurredAt: s.nowFunc(),
	}
	if err := s.notifier.SendAuthRecovered(ctx, event); err != nil {
		s.log.Warn("sending auth recovery notification", "error", err)
	}
}
