// Package fixtures provides hand-built profiles for tests.
package fixtures

import (
	"fmt"

	"icp-hunter/internal/domain"
)

// Profile returns a fully populated profile at position i.
func Profile(i int, category, country string, score int) domain.Profile {
	return domain.Profile{
		ID:         fmt.Sprintf("profile-%d", i),
		Username:   fmt.Sprintf("user%d", i),
		Name:       fmt.Sprintf("User %d", i),
		Bio:        category + " expert | Building the future of tech | Previously @bigtech",
		Category:   domain.Category{Name: category},
		Followers:  1000 + i,
		Engagement: 4.5,
		Country:    domain.Country{Code: country},
		HuntScore:  score,
	}
}

// WithScores returns one profile per score with IDs "a", "b", "c", ...
func WithScores(scores ...int) []domain.Profile {
	out := make([]domain.Profile, len(scores))
	for i, s := range scores {
		out[i] = domain.Profile{ID: string(rune('a' + i)), HuntScore: s}
	}
	return out
}

// CommaBio is a profile whose bio contains a comma.
func CommaBio() domain.Profile {
	return domain.Profile{
		Username:   "user0",
		Name:       "User 0",
		Bio:        "SaaS, AI focus",
		Followers:  1200,
		Engagement: 4.5,
		HuntScore:  8,
		Category:   domain.Category{Name: "SaaS"},
		Country:    domain.Country{Code: "US"},
	}
}

// SavedProfiles are three Trophy Room entries saved on different days.
func SavedProfiles() []domain.Profile {
	return []domain.Profile{
		{ID: "profile-0", Username: "user0", Name: "Ada Lovelace", Bio: "AI expert", HuntScore: 7, SavedAt: "2025-06-01"},
		{ID: "profile-1", Username: "user1", Name: "Grace Hopper", Bio: "SaaS expert", HuntScore: 9, SavedAt: "2025-06-10"},
		{ID: "profile-2", Username: "user2", Name: "Alan Turing", Bio: "VC expert", HuntScore: 8, SavedAt: "2025-06-05"},
	}
}
