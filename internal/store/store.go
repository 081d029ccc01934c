// Package store persists the OAuth2 credential for the MercadoLibre API.
// The token manager depends only on CredentialStore, never on a concrete
// backend, so the file, Postgres and in-memory stores are interchangeable.
package store

import (
	"context"
	"fmt"

	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// CredentialStore holds a single credential record.
type CredentialStore interface {
	// Load returns a copy of the stored credential. A store with no record
	// returns a zero Credential.
	Load(ctx context.Context) (domain.Credential, error)

	// Update runs fn against the current record while holding the store's
	// lock and saves the record when fn returns nil. Concurrent Update
	// calls on one store value are serialized. Only PostgresStore also
	// serializes Update across processes; FileStore and MemoryStore do not.
	Update(ctx context.Context, fn func(*domain.Credential) error) error

	Ping(ctx context.Context) error
	Close()
}

// Options selects and configures a backend.
type Options struct {
	Backend     string
	FilePath    string
	DatabaseURL string
}

// Open creates the store named by opts.Backend.
func Open(ctx context.Context, opts Options) (CredentialStore, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.FilePath), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown credential backend %q", opts.Backend)
	}
}
