package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ecofinder/internal/store"
	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

func TestFileStore_LoadMissingFile(t *testing.T) {
	t.Parallel()

	s := store.NewFileStore(filepath.Join(t.TempDir(), "ml_tokens.json"))

	c, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Credential{}, c)
}

func TestFileStore_UpdateRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ml_tokens.json")
	s := store.NewFileStore(path)
	expires := time.Unix(1_900_000_000, 0)

	err := s.Update(context.Background(), func(c *domain.Credential) error {
		c.AccessToken = "APP_USR-access"
		c.RefreshToken = "TG-refresh"
		c.ExpiresAt = expires
		return nil
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "APP_USR-access", raw["access_token"])
	assert.Equal(t, "TG-refresh", raw["refresh_token"])
	assert.InDelta(t, 1_900_000_000, raw["expires_at"], 0.5)

	// A fresh store sees the same record.
	got, err := store.NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "APP_USR-access", got.AccessToken)
	assert.True(t, expires.Equal(got.ExpiresAt))
}

func TestFileStore_ReadsFractionalExpiry(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ml_tokens.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"access_token":"a","refresh_token":"r","expires_at":1700000000.5}`,
	), 0o600))

	c, err := store.NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000), c.ExpiresAt.Unix())
	assert.Equal(t, 500*time.Millisecond, time.Duration(c.ExpiresAt.Nanosecond()))
}

func TestFileStore_UpdateErrorKeepsRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ml_tokens.json")
	s := store.NewFileStore(path)
	errBoom := errors.New("boom")

	require.NoError(t, s.Update(context.Background(), func(c *domain.Credential) error {
		c.RefreshToken = "keep-me"
		return nil
	}))

	err := s.Update(context.Background(), func(c *domain.Credential) error {
		c.RefreshToken = "discard-me"
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	c, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "keep-me", c.RefreshToken)
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ml_tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := store.NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing credential file")
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "ml_tokens.json")
	s := store.NewFileStore(path)

	require.NoError(t, s.Update(context.Background(), func(c *domain.Credential) error {
		c.AccessToken = "x"
		return nil
	}))
	assert.FileExists(t, path)
	require.NoError(t, s.Ping(context.Background()))
}

func TestFileStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := store.NewFileStore(filepath.Join(t.TempDir(), "ml_tokens.json"))
	err := s.Update(ctx, func(*domain.Credential) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestStores_UpdateSerialized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		store store.CredentialStore
	}{
		{name: "file", store: store.NewFileStore(filepath.Join(t.TempDir(), "ml_tokens.json"))},
		{name: "memory", store: store.NewMemoryStore()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			const workers = 20
			var wg sync.WaitGroup
			for range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := tt.store.Update(context.Background(), func(c *domain.Credential) error {
						c.RefreshToken += "+"
						return nil
					})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			c, err := tt.store.Load(context.Background())
			require.NoError(t, err)
			assert.Len(t, c.RefreshToken, workers)
		})
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    store.Options
		want    any
		wantErr string
	}{
		{
			name: "file backend",
			opts: store.Options{Backend: store.BackendFile, FilePath: "tokens.json"},
			want: &store.FileStore{},
		},
		{
			name: "empty backend defaults to file",
			opts: store.Options{},
			want: &store.FileStore{},
		},
		{
			name: "memory backend",
			opts: store.Options{Backend: store.BackendMemory},
			want: &store.MemoryStore{},
		},
		{
			name:    "unknown backend",
			opts:    store.Options{Backend: "redis"},
			wantErr: `unknown credential backend "redis"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := store.Open(context.Background(), tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	got, err := store.Migrations()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"001_oauth_credentials.sql",
		"002_oauth_credentials_refresh_log.sql",
	}, got)
}
