// Package domain contains the core business entities and rules.
package domain

import (
	"strconv"
	"time"
)

// Hunt score bounds. The whole codebase uses the 0-10 scale.
const (
	MinHuntScore = 0
	MaxHuntScore = 10
)

// Engagement rate bounds, in percent.
const (
	MinEngagement = 1.0
	MaxEngagement = 8.0
)

// SavedAtLayout is the date format of Profile.SavedAt.
const SavedAtLayout = "2006-01-02"

// Profile is one synthetic follower candidate.
type Profile struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Name       string   `json:"name"`
	Bio        string   `json:"bio"`
	Category   Category `json:"category"`
	Followers  int      `json:"followers"`
	Engagement float64  `json:"engagement"`
	Country    Country  `json:"country"`
	HuntScore  int      `json:"huntScore"`
	SavedAt    string   `json:"savedAt,omitempty"`
}

// Relevance returns the label derived from the hunt score.
func (p Profile) Relevance() Relevance {
	switch {
	case p.HuntScore > 8:
		return RelevanceHigh
	case p.HuntScore > 5:
		return RelevanceMedium
	default:
		return RelevanceLow
	}
}

// Saved returns a copy of the profile stamped with the given save date.
func (p Profile) Saved(at time.Time) Profile {
	p.SavedAt = at.Format(SavedAtLayout)
	return p
}

// EngagementLabel formats the engagement rate the way it is exported,
// without trailing zeros (4.0 -> "4").
func (p Profile) EngagementLabel() string {
	return strconv.FormatFloat(p.Engagement, 'f', -1, 64)
}

// Relevance is a coarse label over the hunt score.
type Relevance string

const (
	RelevanceLow    Relevance = "Low"
	RelevanceMedium Relevance = "Medium"
	RelevanceHigh   Relevance = "High"
)

// Category is the interest tag of a profile.
type Category struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Country is where a profile is located.
type Country struct {
	Code string `json:"code"`
	Flag string `json:"flag"`
}

// Categories is the fixed set of profile categories.
var Categories = []Category{
	{Name: "SaaS", Icon: "🧙‍♂️"},
	{Name: "AI", Icon: "📈"},
	{Name: "VC", Icon: "💰"},
	{Name: "Design", Icon: "🎨"},
	{Name: "Mobile", Icon: "📱"},
}

// Countries is the fixed set of profile countries.
var Countries = []Country{
	{Code: "US", Flag: "🇺🇸"},
	{Code: "GB", Flag: "🇬🇧"},
	{Code: "DE", Flag: "🇩🇪"},
	{Code: "FR", Flag: "🇫🇷"},
	{Code: "CA", Flag: "🇨🇦"},
	{Code: "AU", Flag: "🇦🇺"},
}

// IsKnownCategory reports whether name is one of Categories.
func IsKnownCategory(name string) bool {
	for _, c := range Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// IsKnownCountry reports whether code is one of Countries.
func IsKnownCountry(code string) bool {
	for _, c := range Countries {
		if c.Code == code {
			return true
		}
	}
	return false
}
