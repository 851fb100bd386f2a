package web

import (
	"strconv"
	"strings"

	"icp-hunter/internal/domain"
	"icp-hunter/internal/pipeline"
	"icp-hunter/internal/trophy"
)

// ParseCriteria reads the results view criteria from query parameters.
// Missing or malformed values fall back to the defaults.
func ParseCriteria(q map[string]string) (pipeline.Criteria, pipeline.Preset) {
	c := pipeline.DefaultCriteria()
	c.Search = q["search"]
	if v := q["category"]; v != "" {
		c.Category = v
	}
	if v := q["country"]; v != "" {
		c.Country = v
	}
	c.MinScore = clamp(atoi(q["minScore"], 0), domain.MinHuntScore, domain.MaxHuntScore)
	if f, err := strconv.ParseFloat(q["minEngagement"], 64); err == nil && f > 0 {
		c.MinEngagement = f
	}
	if v := q["sortBy"]; v != "" {
		c.SortBy = pipeline.SortKey(v)
	}
	if v := strings.ToLower(q["order"]); v != "" {
		c.Order = pipeline.Order(v)
	}
	c.Page = atoi(q["page"], 1)
	return c, pipeline.Preset(q["preset"])
}

// ParseTrophyQuery reads the Trophy Room view parameters.
func ParseTrophyQuery(q map[string]string) trophy.Query {
	return trophy.Query{
		Search: q["search"],
		SortBy: trophy.SortKey(q["sortBy"]),
		Order:  strings.ToLower(q["order"]),
		ListID: q["listId"],
	}
}

// CheckoutParams are the navigation parameters of the checkout page.
type CheckoutParams struct {
	Tier          string
	Upgrade       bool
	OriginalPrice int
	UpgradePrice  int
}

// ParseCheckoutParams reads ?tier=&upgrade=&originalPrice=&upgradePrice=.
func ParseCheckoutParams(q map[string]string) CheckoutParams {
	upgrade, _ := strconv.ParseBool(q["upgrade"])
	return CheckoutParams{
		Tier:          q["tier"],
		Upgrade:       upgrade,
		OriginalPrice: max(atoi(q["originalPrice"], 0), 0),
		UpgradePrice:  max(atoi(q["upgradePrice"], 0), 0),
	}
}

func atoi(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}
