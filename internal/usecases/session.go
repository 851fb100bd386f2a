package usecases

import (
	"context"
	"sync"

	"icp-hunter/internal/domain"
	"icp-hunter/internal/pipeline"
	"icp-hunter/internal/simulator"
)

// Session is the server-side state of one hunt: its simulation, its
// generated results and what the user has filtered and selected.
type Session struct {
	mu        sync.Mutex
	hunt      domain.Hunt
	tier      domain.Tier
	runner    *simulator.Runner
	cancel    context.CancelFunc
	profiles  []domain.Profile
	byID      map[string]int
	selection pipeline.Selection
	criteria  pipeline.Criteria
	bagged    int
}

// Hunt returns a copy of the hunt record.
func (s *Session) Hunt() domain.Hunt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hunt
}

// Stop cancels the simulation if it is still running. A hunt that has not
// reached its results is marked cancelled.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.hunt.Status == domain.HuntProcessing {
		s.hunt.Status = domain.HuntCancelled
	}
}

// ready returns nil when results can be shown. Callers hold s.mu.
func (s *Session) ready() error {
	switch s.hunt.Status {
	case domain.HuntReady:
		return nil
	case domain.HuntCancelled:
		return domain.ErrHuntCancelled
	default:
		return domain.ErrHuntNotReady
	}
}

// currentPage recomputes the page the user is looking at. Callers hold s.mu.
func (s *Session) currentPage() []domain.Profile {
	return pipeline.Run(s.profiles, s.criteria).Profiles
}

// selected returns the selected profiles in selection order. Callers hold s.mu.
func (s *Session) selected() []domain.Profile {
	ids := s.selection.IDs()
	out := make([]domain.Profile, 0, len(ids))
	for _, id := range ids {
		if i, ok := s.byID[id]; ok {
			out = append(out, s.profiles[i])
		}
	}
	return out
}
