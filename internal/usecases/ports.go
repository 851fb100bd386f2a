package usecases

import (
	"context"
	"time"

	"icp-hunter/internal/domain"
)

// ProfileGenerator produces the mocked result set of a hunt.
type ProfileGenerator interface {
	Generate(count int) ([]domain.Profile, error)
}

// SavedProfileGenerator produces already-saved profiles for seeding.
type SavedProfileGenerator interface {
	GenerateSaved(count int, now time.Time) ([]domain.Profile, error)
}

// HuntStore keeps running and finished hunt sessions.
type HuntStore interface {
	Set(id string, s *Session)
	Get(id string) (*Session, bool)
	Delete(id string) bool
	Range(fn func(id string, s *Session) bool)
}

// ExportStore keeps CSV exports behind download tokens.
type ExportStore interface {
	Save(ctx context.Context, fileName string, data []byte) (domain.ExportFile, error)
	Open(ctx context.Context, token string) (domain.ExportFile, []byte, error)
}

// PaymentGateway approves or declines a checkout.
type PaymentGateway interface {
	Charge(ctx context.Context, c domain.Charge) (domain.Receipt, error)
}
