package usecases

import (
	"bytes"
	"context"
	"fmt"

	"icp-hunter/internal/domain"
	"icp-hunter/internal/pipeline"
	"icp-hunter/pkg/log"
)

// ResultsView is the dashboard for one hunt. Tiers without a dashboard get
// a CSV-only summary with Profiles left empty.
type ResultsView struct {
	HuntID   string        `json:"huntId"`
	Handle   string        `json:"handle"`
	Tier     domain.TierID `json:"tier"`
	CSVOnly  bool          `json:"csvOnly"`
	FileName string        `json:"fileName"`

	pipeline.Result
	Selected    []string `json:"selected"`
	UpgradePath string   `json:"upgradePath,omitempty"`
}

// Results runs the pipeline over a ready hunt. The criteria become the
// hunt's current view, which page-wide selection and export act on.
func (s *HuntService) Results(ctx context.Context, id string, c pipeline.Criteria, preset pipeline.Preset) (ResultsView, error) {
	session, err := s.session(id)
	if err != nil {
		return ResultsView{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if err := session.ready(); err != nil {
		return ResultsView{}, err
	}

	view := ResultsView{
		HuntID:   session.hunt.ID,
		Handle:   session.hunt.Target.Handle,
		Tier:     session.tier.ID,
		FileName: pipeline.ExportFileName(session.hunt.Target.Handle, session.tier.ID),
		Selected: []string{},
	}

	if !session.tier.Dashboard {
		view.CSVOnly = true
		view.Result = pipeline.Result{
			Profiles: []domain.Profile{},
			Total:    len(session.profiles),
			Page:     1,
		}
		view.UpgradePath = CheckoutPath(session.hunt.Target.Handle, domain.SweetSpot, true)
		return view, nil
	}

	if preset != "" {
		c = pipeline.ApplyPreset(c, preset)
	}
	view.Result = pipeline.Run(session.profiles, c)
	session.criteria = view.Result.Criteria
	view.Selected = session.selection.IDs()

	log.GlobalDebugCtx(ctx, "results computed", "hunt_id", id, "total", view.Total, "page", view.Page)
	return view, nil
}

// SelectionView reports the selection after a change.
type SelectionView struct {
	Selected []string `json:"selected"`
	Count    int      `json:"count"`
	Changed  int      `json:"changed"`
}

// ToggleProfile selects or deselects one profile of the hunt.
func (s *HuntService) ToggleProfile(ctx context.Context, id, profileID string) (SelectionView, error) {
	return s.withSelection(id, func(session *Session) (int, error) {
		if _, ok := session.byID[profileID]; !ok {
			return 0, fmt.Errorf("%q: %w", profileID, domain.ErrProfileNotFound)
		}
		session.selection.Toggle(profileID)
		return 1, nil
	})
}

// TogglePage selects every profile on the current page, or deselects them
// all when they are already selected.
func (s *HuntService) TogglePage(ctx context.Context, id string) (SelectionView, error) {
	return s.withSelection(id, func(session *Session) (int, error) {
		return session.selection.TogglePage(session.currentPage()), nil
	})
}

// SelectHighScorers adds the current page's trophy targets to the selection.
func (s *HuntService) SelectHighScorers(ctx context.Context, id string) (SelectionView, error) {
	return s.withSelection(id, func(session *Session) (int, error) {
		return session.selection.SelectHighScorers(session.currentPage(), pipeline.HighScoreThreshold), nil
	})
}

func (s *HuntService) withSelection(id string, change func(*Session) (int, error)) (SelectionView, error) {
	session, err := s.session(id)
	if err != nil {
		return SelectionView{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if err := session.ready(); err != nil {
		return SelectionView{}, err
	}
	if !session.tier.Dashboard {
		return SelectionView{}, fmt.Errorf("selection: %w", domain.ErrTierFeature)
	}

	changed, err := change(session)
	if err != nil {
		return SelectionView{}, err
	}
	return SelectionView{
		Selected: session.selection.IDs(),
		Count:    session.selection.Len(),
		Changed:  changed,
	}, nil
}

// BagResult reports a Trophy Room save.
type BagResult struct {
	Selected int `json:"selected"`
	Added    int `json:"added"`
	Total    int `json:"total"`
}

// Bag saves the selected profiles to the Trophy Room and clears the
// selection. Profiles already saved from this hunt are skipped.
func (s *HuntService) Bag(ctx context.Context, id string) (BagResult, error) {
	session, err := s.session(id)
	if err != nil {
		return BagResult{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if err := session.ready(); err != nil {
		return BagResult{}, err
	}
	if !session.tier.TrophyRoom {
		return BagResult{}, fmt.Errorf("bag: %w", domain.ErrTierFeature)
	}

	picked := session.selected()
	added := s.deps.Trophies.Bag(ctx, id, picked)
	session.bagged += added
	session.selection.Clear()

	return BagResult{Selected: len(picked), Added: added, Total: s.deps.Trophies.Len()}, nil
}

// Export writes the hunt's CSV and stores it behind a download token.
// Sweet Spot exports the current filtered view; Sneak Peek exports every
// result.
func (s *HuntService) Export(ctx context.Context, id string) (domain.ExportFile, error) {
	session, err := s.session(id)
	if err != nil {
		return domain.ExportFile{}, err
	}

	session.mu.Lock()
	if err := session.ready(); err != nil {
		session.mu.Unlock()
		return domain.ExportFile{}, err
	}
	rows := session.profiles
	if session.tier.Dashboard {
		rows = pipeline.Filter(session.profiles, session.criteria)
	}
	name := pipeline.ExportFileName(session.hunt.Target.Handle, session.tier.ID)
	var buf bytes.Buffer
	err = pipeline.WriteCSV(&buf, rows)
	session.mu.Unlock()
	if err != nil {
		return domain.ExportFile{}, fmt.Errorf("writing csv: %w", err)
	}

	file, err := s.deps.Exports.Save(ctx, name, buf.Bytes())
	if err != nil {
		return domain.ExportFile{}, err
	}
	log.GlobalInfoCtx(ctx, "export stored", "hunt_id", id, "file", name, "rows", len(rows))
	return file, nil
}

// Download returns a stored export.
func (s *HuntService) Download(ctx context.Context, token string) (domain.ExportFile, []byte, error) {
	return s.deps.Exports.Open(ctx, token)
}
