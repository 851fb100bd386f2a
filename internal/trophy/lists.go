package trophy

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"icp-hunter/internal/domain"
)

// CreateList adds an empty named list. The name is trimmed and required.
func (r *Room) CreateList(name, description string, now time.Time) (domain.NamedList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NamedList{}, domain.ErrListNameRequired
	}

	list := domain.NamedList{
		ID:          r.newID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		ProfileIDs:  []string{},
	}

	r.mu.Lock()
	r.lists = append(r.lists, list)
	r.mu.Unlock()
	return list, nil
}

// AddToList unions keys into the list. Keys that are not saved are ignored.
func (r *Room) AddToList(listID string, keys []string) (domain.NamedList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.listIndex(listID)
	if i < 0 {
		return domain.NamedList{}, fmt.Errorf("add to list %s: %w", listID, domain.ErrListNotFound)
	}

	list := &r.lists[i]
	for _, k := range keys {
		if _, saved := r.index[k]; !saved || list.Has(k) {
			continue
		}
		list.ProfileIDs = append(list.ProfileIDs, k)
	}
	return cloneList(*list), nil
}

// DeleteList removes a list. If it was the active filter, the filter goes
// back to all profiles.
func (r *Room) DeleteList(listID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.listIndex(listID)
	if i < 0 {
		return fmt.Errorf("delete list %s: %w", listID, domain.ErrListNotFound)
	}
	r.lists = slices.Delete(r.lists, i, i+1)
	if r.activeList == listID {
		r.activeList = AllLists
	}
	return nil
}

// Lists returns copies of all named lists in creation order.
func (r *Room) Lists() []domain.NamedList {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.NamedList, len(r.lists))
	for i, l := range r.lists {
		out[i] = cloneList(l)
	}
	return out
}

// SetActiveList sets the list filter. AllLists clears it.
func (r *Room) SetActiveList(listID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listID == "" || listID == AllLists {
		r.activeList = AllLists
		return nil
	}
	if r.listIndex(listID) < 0 {
		return fmt.Errorf("activate list %s: %w", listID, domain.ErrListNotFound)
	}
	r.activeList = listID
	return nil
}

// ActiveList returns the active list filter and its display name.
func (r *Room) ActiveList() (id, name string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.listIndex(r.activeList); i >= 0 {
		return r.activeList, r.lists[i].Name
	}
	return AllLists, "All Profiles"
}

func (r *Room) listIndex(id string) int {
	return slices.IndexFunc(r.lists, func(l domain.NamedList) bool { return l.ID == id })
}

func cloneList(l domain.NamedList) domain.NamedList {
	l.ProfileIDs = slices.Clone(l.ProfileIDs)
	return l
}
