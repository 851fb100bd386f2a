package domain

import "time"

// HuntStatus tracks where a hunt is in its lifecycle.
type HuntStatus string

const (
	HuntProcessing HuntStatus = "processing"
	HuntReady      HuntStatus = "ready"
	HuntCancelled  HuntStatus = "cancelled"
)

// Hunt is one end-to-end analysis run against a target handle.
type Hunt struct {
	ID        string     `json:"id"`
	Target    Target     `json:"target"`
	Status    HuntStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadyAt   time.Time  `json:"readyAt,omitempty"`
}

// NamedList is a user-defined grouping of saved profiles.
type NamedList struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ProfileIDs  []string  `json:"profileIds"`
}

// Has reports whether the list contains the saved profile key.
func (l NamedList) Has(key string) bool {
	for _, id := range l.ProfileIDs {
		if id == key {
			return true
		}
	}
	return false
}
