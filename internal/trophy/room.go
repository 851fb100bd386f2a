// Package trophy holds the Trophy Room: saved profiles and named lists.
package trophy

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"icp-hunter/internal/domain"
)

// SortKey orders the Trophy Room.
type SortKey string

const (
	SortSavedAt   SortKey = "savedAt"
	SortHuntScore SortKey = "huntScore"
)

// AllLists is the active-list value that shows every saved profile.
const AllLists = "all"

// Saved is a profile copied into the Trophy Room.
type Saved struct {
	Key     string         `json:"key"`
	Source  string         `json:"source"`
	Profile domain.Profile `json:"profile"`
}

// Key builds the Trophy Room key of a profile from a given hunt.
// Profile IDs are only unique within one hunt, so the source is part of it.
func Key(source, profileID string) string {
	return source + ":" + profileID
}

// Query selects and orders saved profiles.
type Query struct {
	Search string  `json:"search"`
	SortBy SortKey `json:"sortBy"`
	Order  string  `json:"order"`
	ListID string  `json:"listId"`
}

// Room is the in-memory Trophy Room. It is safe for concurrent use.
type Room struct {
	mu         sync.RWMutex
	saved      []Saved
	index      map[string]int
	lists      []domain.NamedList
	activeList string
	newID      func() string
}

// NewRoom creates an empty Trophy Room.
func NewRoom() *Room {
	return &Room{
		index:      make(map[string]int),
		activeList: AllLists,
		newID:      uuid.NewString,
	}
}

// Bag copies profiles from source into the room stamped with now, skipping
// any already saved. It returns how many were added.
func (r *Room) Bag(source string, profiles []domain.Profile, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, p := range profiles {
		key := Key(source, p.ID)
		if _, ok := r.index[key]; ok {
			continue
		}
		if p.SavedAt == "" {
			p = p.Saved(now)
		}
		r.index[key] = len(r.saved)
		r.saved = append(r.saved, Saved{Key: key, Source: source, Profile: p})
		added++
	}
	return added
}

// Remove deletes saved profiles by key and drops them from every list.
// It returns how many were removed.
func (r *Room) Remove(keys []string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := r.index[k]; ok {
			drop[k] = true
		}
	}
	if len(drop) == 0 {
		return 0
	}

	kept := r.saved[:0]
	for _, s := range r.saved {
		if !drop[s.Key] {
			kept = append(kept, s)
		}
	}
	r.saved = kept
	r.reindex()

	for i := range r.lists {
		r.lists[i].ProfileIDs = slices.DeleteFunc(r.lists[i].ProfileIDs, func(id string) bool { return drop[id] })
	}
	return len(drop)
}

// Len returns the number of saved profiles.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.saved)
}

// Query returns the saved profiles matching q. An empty ListID uses the
// active list; an unknown list shows everything.
func (r *Room) Query(q Query) []Saved {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listID := q.ListID
	if listID == "" {
		listID = r.activeList
	}
	var list *domain.NamedList
	if listID != AllLists {
		if i := r.listIndex(listID); i >= 0 {
			list = &r.lists[i]
		}
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Saved, 0, len(r.saved))
	for _, s := range r.saved {
		if list != nil && !list.Has(s.Key) {
			continue
		}
		if search != "" && !matches(s.Profile, search) {
			continue
		}
		out = append(out, s)
	}

	asc := q.Order == "asc"
	slices.SortStableFunc(out, func(a, b Saved) int {
		var c int
		if q.SortBy == SortHuntScore {
			c = cmp.Compare(a.Profile.HuntScore, b.Profile.HuntScore)
		} else {
			c = cmp.Compare(a.Profile.SavedAt, b.Profile.SavedAt)
		}
		if asc {
			return c
		}
		return -c
	})
	return out
}

func matches(p domain.Profile, search string) bool {
	return strings.Contains(strings.ToLower(p.Username), search) ||
		strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Bio), search)
}

func (r *Room) reindex() {
	clear(r.index)
	for i, s := range r.saved {
		r.index[s.Key] = i
	}
}
