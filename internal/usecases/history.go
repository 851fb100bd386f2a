package usecases

import (
	"cmp"
	"context"
	"slices"
	"time"

	"icp-hunter/internal/domain"
)

// HuntSummary is one finished hunt on the dashboard.
type HuntSummary struct {
	ID          string        `json:"id"`
	Target      domain.Target `json:"target"`
	Price       int           `json:"price"`
	CompletedAt time.Time     `json:"completedAt"`
	Bagged      int           `json:"bagged"`
	ResultsPath string        `json:"resultsPath,omitempty"`
	ExportPath  string        `json:"exportPath"`
	UpgradePath string        `json:"upgradePath,omitempty"`
}

// DashboardStats are the hunter's running totals.
type DashboardStats struct {
	TotalTrophies  int `json:"totalTrophies"`
	HuntsCompleted int `json:"huntsCompleted"`
}

// Dashboard lists finished hunts, newest first. Sweet Spot hunts go to
// Hunts; CSV-only hunts go to QuickHunts with an upgrade offer.
type Dashboard struct {
	Stats      DashboardStats `json:"stats"`
	Hunts      []HuntSummary  `json:"hunts"`
	QuickHunts []HuntSummary  `json:"quickHunts"`
}

// History builds the dashboard from the hunts still held in the store.
// Hunts that are running or were cancelled are left out.
func (s *HuntService) History(ctx context.Context) Dashboard {
	d := Dashboard{Hunts: []HuntSummary{}, QuickHunts: []HuntSummary{}}

	s.deps.Hunts.Range(func(id string, session *Session) bool {
		session.mu.Lock()
		hunt, tier, bagged := session.hunt, session.tier, session.bagged
		session.mu.Unlock()
		if hunt.Status != domain.HuntReady {
			return true
		}

		sum := HuntSummary{
			ID:          hunt.ID,
			Target:      hunt.Target,
			Price:       tier.Price,
			CompletedAt: hunt.ReadyAt,
			Bagged:      bagged,
			ExportPath:  "/api/hunts/" + hunt.ID + "/export",
		}
		if tier.Dashboard {
			sum.ResultsPath = "/api/hunts/" + hunt.ID + "/results"
			d.Hunts = append(d.Hunts, sum)
		} else {
			sum.UpgradePath = CheckoutPath(hunt.Target.Handle, domain.SweetSpot, true)
			d.QuickHunts = append(d.QuickHunts, sum)
		}
		return true
	})

	newestFirst := func(a, b HuntSummary) int {
		if c := b.CompletedAt.Compare(a.CompletedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
	slices.SortFunc(d.Hunts, newestFirst)
	slices.SortFunc(d.QuickHunts, newestFirst)

	d.Stats.HuntsCompleted = len(d.Hunts) + len(d.QuickHunts)
	if s.deps.Trophies != nil {
		d.Stats.TotalTrophies = s.deps.Trophies.Len()
	}
	return d
}
