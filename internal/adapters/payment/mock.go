// Package payment is a stand-in gateway: it waits, then approves or fails
// at random. No money moves.
package payment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"icp-hunter/internal/domain"
)

// MockGateway simulates processing latency and occasional failures.
type MockGateway struct {
	delay       time.Duration
	failureRate float64
	roll        func() float64
	now         func() time.Time
}

// NewMockGateway creates a gateway that takes delay per charge and fails
// with probability failureRate.
func NewMockGateway(delay time.Duration, failureRate float64) *MockGateway {
	return &MockGateway{
		delay:       delay,
		failureRate: failureRate,
		roll:        rand.Float64,
		now:         time.Now,
	}
}

// WithRoll replaces the random source deciding failures.
func (g *MockGateway) WithRoll(roll func() float64) *MockGateway {
	g.roll = roll
	return g
}

// Charge waits for the processing delay, then approves or returns
// domain.ErrCheckoutFailed. A cancelled ctx aborts the wait.
func (g *MockGateway) Charge(ctx context.Context, c domain.Charge) (domain.Receipt, error) {
	if c.Amount < 0 {
		return domain.Receipt{}, fmt.Errorf("invalid amount %d", c.Amount)
	}

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return domain.Receipt{}, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return domain.Receipt{}, err
	}

	if g.failureRate > 0 && g.roll() < g.failureRate {
		return domain.Receipt{}, domain.ErrCheckoutFailed
	}

	return domain.Receipt{
		ID:            uuid.NewString(),
		Email:         c.Email,
		Tier:          c.Tier,
		Amount:        c.Amount,
		Upgrade:       c.Upgrade,
		OriginalPrice: c.OriginalPrice,
		PaidAt:        g.now(),
	}, nil
}
