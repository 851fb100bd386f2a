// Package generator produces synthetic follower profiles.
package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"icp-hunter/internal/domain"
)

// Source is the randomness the generator draws from.
// *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// savedWindow is how far back seeded Trophy Room entries may have been saved.
const savedWindow = 30 * 24 * time.Hour

// Generator builds batches of profiles from a Source. It is safe for
// concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd Source
}

// New creates a Generator drawing from src.
func New(src Source) *Generator {
	return &Generator{rnd: src}
}

// NewSeeded creates a deterministic Generator.
func NewSeeded(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Generate returns count independently randomized profiles.
// IDs are derived from position, so they are unique within the batch.
func (g *Generator) Generate(count int) ([]domain.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generate(count)
}

func (g *Generator) generate(count int) ([]domain.Profile, error) {
	if count < 0 {
		return nil, fmt.Errorf("generate %d profiles: %w", count, domain.ErrInvalidCount)
	}

	profiles := make([]domain.Profile, 0, count)
	for i := 0; i < count; i++ {
		profiles = append(profiles, g.profile(i))
	}
	return profiles, nil
}

// GenerateSaved returns count profiles stamped with a save date within the
// 30 days before now.
func (g *Generator) GenerateSaved(count int, now time.Time) ([]domain.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	profiles, err := g.generate(count)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		back := time.Duration(g.rnd.Float64() * float64(savedWindow))
		profiles[i] = profiles[i].Saved(now.Add(-back))
	}
	return profiles, nil
}

func (g *Generator) profile(i int) domain.Profile {
	category := domain.Categories[g.rnd.IntN(len(domain.Categories))]
	country := domain.Countries[g.rnd.IntN(len(domain.Countries))]

	return domain.Profile{
		ID:         fmt.Sprintf("profile-%d", i),
		Username:   fmt.Sprintf("user%d", i),
		Name:       fmt.Sprintf("User %d", i),
		Bio:        category.Name + " expert | Building the future of tech | Previously @bigtech",
		Category:   category,
		Followers:  g.rnd.IntN(99000) + 1000,
		Engagement: math.Round((g.rnd.Float64()*7+1)*10) / 10,
		Country:    country,
		HuntScore:  g.rnd.IntN(4) + 6,
	}
}
