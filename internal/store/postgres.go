package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

const (
	defaultPoolSize = 4
	credentialName  = "mercadolibre"
)

// PostgresStore keeps the credential in the oauth_credentials table. Update
// locks the row with SELECT ... FOR UPDATE, so several service replicas
// refreshing at once are serialized.
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool, name: credentialName}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// Load reads the credential row without locking it.
func (s *PostgresStore) Load(ctx context.Context) (domain.Credential, error) {
	var c domain.Credential
	err := scanCredential(
		s.pool.QueryRow(ctx, querySelectCredential, pgx.NamedArgs{"name": s.name}),
		&c,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Credential{}, nil
	}
	if err != nil {
		return domain.Credential{}, fmt.Errorf("loading credential: %w", err)
	}
	return c, nil
}

// Update locks the credential row, applies fn and writes the row back in the
// same transaction.
func (s *PostgresStore) Update(ctx context.Context, fn func(*domain.Credential) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		args := pgx.NamedArgs{"name": s.name}

		if _, err := tx.Exec(ctx, queryEnsureCredential, args); err != nil {
			return fmt.Errorf("creating credential row: %w", err)
		}

		var c domain.Credential
		if err := scanCredential(tx.QueryRow(ctx, querySelectCredentialForUpdate, args), &c); err != nil {
			return fmt.Errorf("locking credential row: %w", err)
		}

		before := c
		if err := fn(&c); err != nil {
			return err
		}
		if c == before {
			return nil
		}

		var expiresAt *time.Time
		if !c.ExpiresAt.IsZero() {
			expiresAt = &c.ExpiresAt
		}

		_, err := tx.Exec(ctx, queryUpdateCredential, pgx.NamedArgs{
			"name":          s.name,
			"access_token":  c.AccessToken,
			"refresh_token": c.RefreshToken,
			"expires_at":    expiresAt,
		})
		if err != nil {
			return fmt.Errorf("saving credential: %w", err)
		}
		return nil
	})
}

func scanCredential(row pgx.Row, c *domain.Credential) error {
	var expiresAt *time.Time
	if err := row.Scan(&c.AccessToken, &c.RefreshToken, &expiresAt); err != nil {
		return err
	}
	if expiresAt != nil {
		c.ExpiresAt = *expiresAt
	}
	return nil
}
