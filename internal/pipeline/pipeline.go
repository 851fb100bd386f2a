package pipeline

import (
	"cmp"
	"slices"
	"strings"

	"icp-hunter/internal/domain"
)

// Result is one computed page plus aggregate counts.
type Result struct {
	Profiles []domain.Profile `json:"profiles"`
	Total    int              `json:"total"`
	Pages    int              `json:"pages"`
	Page     int              `json:"page"`
	HasPrev  bool             `json:"hasPrev"`
	HasNext  bool             `json:"hasNext"`
	Criteria Criteria         `json:"criteria"`
}

// Run filters, sorts and slices profiles for the requested page.
// profiles is never modified. An empty result has zero pages and page 1.
// A page past the end is clamped to the last page.
func Run(profiles []domain.Profile, c Criteria) Result {
	c = c.normalized()
	matched := Filter(profiles, c)

	total := len(matched)
	pages := (total + PageSize - 1) / PageSize
	page := min(c.Page, max(pages, 1))
	c.Page = page

	start := min((page-1)*PageSize, total)
	end := min(start+PageSize, total)

	return Result{
		Profiles: matched[start:end:end],
		Total:    total,
		Pages:    pages,
		Page:     page,
		HasPrev:  page > 1,
		HasNext:  page < pages,
		Criteria: c,
	}
}

// Filter returns every profile matching c, sorted. Pagination is ignored.
func Filter(profiles []domain.Profile, c Criteria) []domain.Profile {
	c = c.normalized()

	matched := make([]domain.Profile, 0, len(profiles))
	for _, p := range profiles {
		if matches(p, c) {
			matched = append(matched, p)
		}
	}

	key := sortValue(c.SortBy)
	slices.SortStableFunc(matched, func(a, b domain.Profile) int {
		if c.Order == Asc {
			return cmp.Compare(key(a), key(b))
		}
		return cmp.Compare(key(b), key(a))
	})
	return matched
}

func matches(p domain.Profile, c Criteria) bool {
	if c.Search != "" &&
		!strings.Contains(strings.ToLower(p.Username), c.Search) &&
		!strings.Contains(strings.ToLower(p.Bio), c.Search) {
		return false
	}
	if c.Category != All && p.Category.Name != c.Category {
		return false
	}
	if c.Country != All && p.Country.Code != c.Country {
		return false
	}
	return p.HuntScore >= c.MinScore && p.Engagement >= c.MinEngagement
}

func sortValue(k SortKey) func(domain.Profile) float64 {
	switch k {
	case SortFollowers:
		return func(p domain.Profile) float64 { return float64(p.Followers) }
	case SortEngagement:
		return func(p domain.Profile) float64 { return p.Engagement }
	default:
		return func(p domain.Profile) float64 { return float64(p.HuntScore) }
	}
}
