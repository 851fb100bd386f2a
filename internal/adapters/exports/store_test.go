package exports_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icp-hunter/internal/adapters/exports"
	"icp-hunter/internal/domain"
)

func newStore(t *testing.T) (*exports.Store, afero.Fs, *time.Time) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s, err := exports.NewStore(fs, "/exports", 24*time.Hour)
	require.NoError(t, err)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })
	return s, fs, &now
}

func TestStore_SaveAndOpen(t *testing.T) {
	s, fs, _ := newStore(t)
	ctx := context.Background()

	exp, err := s.Save(ctx, "hunt-results-levelsio-sweet-spot.csv", []byte("Username\n"))
	require.NoError(t, err)
	assert.NotEmpty(t, exp.Token)
	assert.Equal(t, 9, exp.Size)
	assert.Equal(t, exp.CreatedAt.Add(24*time.Hour), exp.ExpiresAt)

	exists, err := afero.Exists(fs, "/exports/"+exp.Token+".csv")
	require.NoError(t, err)
	assert.True(t, exists)

	got, data, err := s.Open(ctx, exp.Token)
	require.NoError(t, err)
	assert.Equal(t, "hunt-results-levelsio-sweet-spot.csv", got.FileName)
	assert.Equal(t, "Username\n", string(data))
}

func TestStore_Open_UnknownToken(t *testing.T) {
	s, _, _ := newStore(t)

	_, _, err := s.Open(context.Background(), "nope")

	assert.True(t, errors.Is(err, domain.ErrExportNotFound))
}

func TestStore_Open_ExpiredLinkIsRemoved(t *testing.T) {
	s, fs, now := newStore(t)
	ctx := context.Background()
	exp, err := s.Save(ctx, "a.csv", []byte("x"))
	require.NoError(t, err)

	*now = now.Add(24 * time.Hour)
	_, _, err = s.Open(ctx, exp.Token)

	assert.ErrorIs(t, err, domain.ErrExportNotFound)
	exists, _ := afero.Exists(fs, "/exports/"+exp.Token+".csv")
	assert.False(t, exists)
}

func TestStore_Purge(t *testing.T) {
	s, _, now := newStore(t)
	ctx := context.Background()
	old, _ := s.Save(ctx, "old.csv", []byte("1"))
	*now = now.Add(23 * time.Hour)
	fresh, _ := s.Save(ctx, "fresh.csv", []byte("2"))
	*now = now.Add(2 * time.Hour)

	removed := s.Purge()

	assert.Equal(t, 1, removed)
	_, _, err := s.Open(ctx, old.Token)
	assert.ErrorIs(t, err, domain.ErrExportNotFound)
	_, _, err = s.Open(ctx, fresh.Token)
	assert.NoError(t, err)
}

func TestStore_Save_CancelledContext(t *testing.T) {
	s, _, _ := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, "a.csv", []byte("x"))

	assert.ErrorIs(t, err, context.Canceled)
}
