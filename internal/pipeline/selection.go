package pipeline

import "icp-hunter/internal/domain"

// Selection is an ordered set of selected profile IDs.
// The zero value is empty and ready to use.
type Selection struct {
	order []string
	set   map[string]struct{}
}

// NewSelection creates a selection holding ids, duplicates dropped.
func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

// Len returns how many profiles are selected.
func (s *Selection) Len() int {
	return len(s.order)
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	_, ok := s.set[id]
	return ok
}

// IDs returns the selected IDs in selection order.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.order = nil
	s.set = nil
}

// Toggle flips one profile and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if s.Contains(id) {
		s.remove(id)
		return false
	}
	s.add(id)
	return true
}

// TogglePage is "select all" for the visible page. When every profile on
// the page is already selected they are all deselected; otherwise the
// missing ones are added. IDs outside page are never touched.
// It returns the change in selection size.
func (s *Selection) TogglePage(page []domain.Profile) int {
	if len(page) == 0 {
		return 0
	}

	allSelected := true
	for _, p := range page {
		if !s.Contains(p.ID) {
			allSelected = false
			break
		}
	}

	before := s.Len()
	for _, p := range page {
		if allSelected {
			s.remove(p.ID)
		} else {
			s.add(p.ID)
		}
	}
	return s.Len() - before
}

// SelectHighScorers adds every page profile scoring at least threshold
// that is not already selected, and returns how many were added.
func (s *Selection) SelectHighScorers(page []domain.Profile, threshold int) int {
	added := 0
	for _, p := range page {
		if p.HuntScore >= threshold && s.add(p.ID) {
			added++
		}
	}
	return added
}

func (s *Selection) add(id string) bool {
	if s.Contains(id) {
		return false
	}
	if s.set == nil {
		s.set = make(map[string]struct{})
	}
	s.set[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *Selection) remove(id string) {
	if !s.Contains(id) {
		return
	}
	delete(s.set, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
