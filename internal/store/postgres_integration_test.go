//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/ecofinder/internal/store"
	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ecofinder_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_MigrateIdempotent(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresStore_LoadEmpty(t *testing.T) {
	s := setupPostgres(t)

	c, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Credential{}, c)
}

func TestPostgresStore_UpdateRoundTrip(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()
	expires := time.Now().Add(time.Hour).Truncate(time.Microsecond)

	err := s.Update(ctx, func(c *domain.Credential) error {
		c.AccessToken = "APP_USR-access"
		c.RefreshToken = "TG-refresh"
		c.ExpiresAt = expires
		return nil
	})
	require.NoError(t, err)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "APP_USR-access", got.AccessToken)
	assert.Equal(t, "TG-refresh", got.RefreshToken)
	assert.True(t, expires.Equal(got.ExpiresAt))
}

func TestPostgresStore_UpdateErrorRollsBack(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()
	errBoom := errors.New("boom")

	require.NoError(t, s.Update(ctx, func(c *domain.Credential) error {
		c.AccessToken = "first"
		return nil
	}))

	err := s.Update(ctx, func(c *domain.Credential) error {
		c.AccessToken = "second"
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", got.AccessToken)
}

func TestPostgresStore_UpdateSerialized(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, func(c *domain.Credential) error {
		c.RefreshToken = "0"
		return nil
	}))

	const workers = 8
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Update(ctx, func(c *domain.Credential) error {
				c.RefreshToken += "+"
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.RefreshToken, 1+workers)
}
