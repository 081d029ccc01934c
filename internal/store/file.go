package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

// DefaultFilePath is the credential file used when none is configured.
const DefaultFilePath = "ml_tokens.json"

// fileRecord is the on-disk layout. expires_at is unix seconds and may carry
// a fractional part. It holds the real expiry with no refresh margin
// subtracted. Older clients of this format stored expiry minus 60s and treat
// the value as a deadline, so one sharing this file may use a token right up
// to its real expiry.
type fileRecord struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresAt    float64 `json:"expires_at"`
}

// FileStore keeps the credential in a small JSON file. Writes go to a
// temporary file that is renamed over the original, so readers never see a
// partial record. Update is serialized within one FileStore only; two
// processes sharing the file can both refresh and the last write wins.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileStore{path: path}
}

// Path returns the credential file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the credential file. A missing file yields a zero credential.
func (s *FileStore) Load(_ context.Context) (domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// Update reads the file, applies fn and writes the result back.
func (s *FileStore) Update(ctx context.Context, fn func(*domain.Credential) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	c, err := s.readLocked()
	if err != nil {
		return err
	}

	before := c
	if err := fn(&c); err != nil {
		return err
	}
	if c == before {
		return nil
	}

	return s.writeLocked(c)
}

// Ping checks that the credential directory is reachable.
func (s *FileStore) Ping(_ context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("checking credential directory: %w", err)
	}
	return nil
}

// Close is a no-op.
func (*FileStore) Close() {}

func (s *FileStore) readLocked() (domain.Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Credential{}, nil
	}
	if err != nil {
		return domain.Credential{}, fmt.Errorf("reading credential file: %w", err)
	}
	if len(data) == 0 {
		return domain.Credential{}, nil
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Credential{}, fmt.Errorf("parsing credential file %s: %w", s.path, err)
	}

	c := domain.Credential{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
	}
	if rec.ExpiresAt > 0 {
		sec, frac := math.Modf(rec.ExpiresAt)
		c.ExpiresAt = time.Unix(int64(sec), int64(frac*1e9))
	}
	return c, nil
}

func (s *FileStore) writeLocked(c domain.Credential) error {
	rec := fileRecord{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
	}
	if !c.ExpiresAt.IsZero() {
		rec.ExpiresAt = float64(c.ExpiresAt.Unix())
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credential: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating credential directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ml_tokens-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp credential file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("writing credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing credential file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing credential file: %w", err)
	}
	return nil
}
