// Package pipeline filters, sorts and paginates hunt results.
package pipeline

import "strings"

// PageSize is the number of profiles shown per results page.
const PageSize = 25

// All bypasses the category or country filter.
const All = "All"

// HighScoreThreshold is the hunt score at or above which a profile is a
// trophy target.
const HighScoreThreshold = 8

// SortKey selects the profile field results are ordered by.
type SortKey string

const (
	SortHuntScore  SortKey = "huntScore"
	SortFollowers  SortKey = "followers"
	SortEngagement SortKey = "engagement"
)

// Order is the sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Criteria is everything the user can change on the results view.
type Criteria struct {
	Search        string  `json:"search"`
	Category      string  `json:"category"`
	Country       string  `json:"country"`
	MinScore      int     `json:"minScore"`
	MinEngagement float64 `json:"minEngagement"`
	SortBy        SortKey `json:"sortBy"`
	Order         Order   `json:"order"`
	Page          int     `json:"page"`
}

// DefaultCriteria shows everything, best hunt score first.
func DefaultCriteria() Criteria {
	return Criteria{
		Category: All,
		Country:  All,
		SortBy:   SortHuntScore,
		Order:    Desc,
		Page:     1,
	}
}

// normalized fills unset or unknown values with defaults.
func (c Criteria) normalized() Criteria {
	if c.Category == "" {
		c.Category = All
	}
	if c.Country == "" {
		c.Country = All
	}
	switch c.SortBy {
	case SortHuntScore, SortFollowers, SortEngagement:
	default:
		c.SortBy = SortHuntScore
	}
	if c.Order != Asc {
		c.Order = Desc
	}
	if c.Page < 1 {
		c.Page = 1
	}
	c.Search = strings.ToLower(strings.TrimSpace(c.Search))
	return c
}

// Preset is one of the "smart sort" shortcuts.
type Preset string

const (
	PresetTrophy Preset = "trophy"
	PresetHidden Preset = "hidden"
	PresetLocal  Preset = "local"
	PresetRising Preset = "rising"
)

// ApplyPreset returns c adjusted by the preset. Unknown presets leave c
// unchanged. Presets only tighten or reorder; they never reset other filters.
func ApplyPreset(c Criteria, p Preset) Criteria {
	switch p {
	case PresetTrophy:
		c.SortBy = SortHuntScore
		c.MinScore = HighScoreThreshold
	case PresetHidden:
		c.SortBy = SortEngagement
		c.MinEngagement = 4
	case PresetLocal:
		c.Country = "US"
	case PresetRising:
		c.SortBy = SortEngagement
	}
	return c
}
