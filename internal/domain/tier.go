package domain

import (
	"slices"
	"strings"
	"time"
)

// TierID identifies one of the two service levels.
type TierID string

const (
	SneakPeek TierID = "sneak-peek"
	SweetSpot TierID = "sweet-spot"
)

// Tier is a fixed service level. Prices and limits are constants.
type Tier struct {
	ID            TierID   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         int      `json:"price"`
	FollowerLimit int      `json:"followerLimit"`
	ResultCount   int      `json:"resultCount"`
	Features      []string `json:"features"`
	Popular       bool     `json:"popular,omitempty"`
	ButtonText    string   `json:"buttonText"`
	Dashboard     bool     `json:"dashboard"`
	TrophyRoom    bool     `json:"trophyRoom"`

	// Simulation constants.
	Stages        [5]time.Duration `json:"-"`
	ScanStep      int              `json:"-"`
	TargetStep    int              `json:"-"`
	MaxTargets    int              `json:"-"`
	HighValueStep int              `json:"-"`
	MaxHighValue  int              `json:"-"`
}

var tiers = []Tier{
	{
		ID:            SneakPeek,
		Name:          "Sneak Peek",
		Description:   "Quick hunt for smaller targets",
		Price:         9,
		FollowerLimit: 5000,
		ResultCount:   127,
		Features: []string{
			"5K followers limit",
			"Basic filters",
			"CSV download ONLY",
			"No dashboard access",
			"Simple results modal",
			"One-time purchase",
		},
		ButtonText:    "Gear Up!",
		Stages:        [5]time.Duration{2000 * time.Millisecond, 3000 * time.Millisecond, 2500 * time.Millisecond, 2000 * time.Millisecond, 1000 * time.Millisecond},
		ScanStep:      150,
		TargetStep:    8,
		MaxTargets:    200,
		HighValueStep: 2,
		MaxHighValue:  35,
	},
	{
		ID:            SweetSpot,
		Name:          "Sweet Spot",
		Description:   "Full hunting experience",
		Price:         19,
		FollowerLimit: 25000,
		ResultCount:   847,
		Features: []string{
			"25K followers limit",
			"Advanced filters",
			"Full dashboard access",
			"Trophy Room for saved profiles",
			"CSV Export + Profile saving",
			"One-time purchase",
		},
		Popular:       true,
		ButtonText:    "Gear Up!",
		Dashboard:     true,
		TrophyRoom:    true,
		Stages:        [5]time.Duration{2000 * time.Millisecond, 5000 * time.Millisecond, 4000 * time.Millisecond, 3000 * time.Millisecond, 1000 * time.Millisecond},
		ScanStep:      500,
		TargetStep:    15,
		MaxTargets:    847,
		HighValueStep: 5,
		MaxHighValue:  124,
	},
}

// Tiers returns both service levels, cheapest first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	for i, t := range tiers {
		t.Features = slices.Clone(t.Features)
		out[i] = t
	}
	return out
}

// ParseTier resolves a tier token. The checkout spelling with an
// underscore ("sweet_spot") is accepted too.
func ParseTier(token string) (Tier, error) {
	id := TierID(strings.ReplaceAll(strings.TrimSpace(token), "_", "-"))
	for _, t := range tiers {
		if t.ID == id {
			t.Features = slices.Clone(t.Features)
			return t, nil
		}
	}
	if id == "" {
		return Tier{}, ErrTierMissing
	}
	return Tier{}, ErrTierUnknown
}

// MustTier returns the tier for a known id and panics otherwise.
func MustTier(id TierID) Tier {
	t, err := ParseTier(string(id))
	if err != nil {
		panic(err)
	}
	return t
}

// UpgradePrice is what a Sneak Peek buyer pays to move to Sweet Spot.
func UpgradePrice() int {
	return MustTier(SweetSpot).Price - MustTier(SneakPeek).Price
}
