// Package exports keeps generated CSV files behind short-lived download tokens.
package exports

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"icp-hunter/internal/domain"
)

// Store writes export files to an afero filesystem. Links expire after ttl.
type Store struct {
	fs  afero.Fs
	dir string
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	index map[string]domain.ExportFile
}

// NewStore creates dir on fs if needed.
func NewStore(fs afero.Fs, dir string, ttl time.Duration) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &Store{
		fs:    fs,
		dir:   dir,
		ttl:   ttl,
		now:   time.Now,
		index: make(map[string]domain.ExportFile),
	}, nil
}

// SetClock replaces time.Now.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Save stores data and returns a descriptor with a fresh token.
func (s *Store) Save(ctx context.Context, fileName string, data []byte) (domain.ExportFile, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExportFile{}, err
	}
	now := s.now()
	exp := domain.ExportFile{
		Token:     uuid.NewString(),
		FileName:  fileName,
		Size:      len(data),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := afero.WriteFile(s.fs, s.pathFor(exp.Token), data, 0o644); err != nil {
		return domain.ExportFile{}, fmt.Errorf("failed to write export: %w", err)
	}

	s.mu.Lock()
	s.index[exp.Token] = exp
	s.mu.Unlock()
	return exp, nil
}

// Open returns the descriptor and content for token. Unknown and expired
// tokens yield domain.ErrExportNotFound; expired files are removed.
func (s *Store) Open(ctx context.Context, token string) (domain.ExportFile, []byte, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExportFile{}, nil, err
	}
	s.mu.Lock()
	exp, ok := s.index[token]
	if ok && !s.now().Before(exp.ExpiresAt) {
		delete(s.index, token)
		s.mu.Unlock()
		_ = s.fs.Remove(s.pathFor(token))
		return domain.ExportFile{}, nil, domain.ErrExportNotFound
	}
	s.mu.Unlock()
	if !ok {
		return domain.ExportFile{}, nil, domain.ErrExportNotFound
	}

	data, err := afero.ReadFile(s.fs, s.pathFor(token))
	if err != nil {
		return domain.ExportFile{}, nil, fmt.Errorf("%w: %v", domain.ErrExportNotFound, err)
	}
	return exp, data, nil
}

// Purge removes every expired export and returns how many were removed.
func (s *Store) Purge() int {
	now := s.now()
	var expired []string
	s.mu.Lock()
	for token, exp := range s.index {
		if !now.Before(exp.ExpiresAt) {
			expired = append(expired, token)
			delete(s.index, token)
		}
	}
	s.mu.Unlock()

	for _, token := range expired {
		_ = s.fs.Remove(s.pathFor(token))
	}
	return len(expired)
}

func (s *Store) pathFor(token string) string {
	return path.Join(s.dir, token+".csv")
}
