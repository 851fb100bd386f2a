package domain_test

import (
	"testing"

	"icp-hunter/internal/domain"
)

func TestTiers_ReturnsIndependentCopies(t *testing.T) {
	// Arrange
	first := domain.Tiers()
	want := domain.MustTier(domain.SneakPeek).Features[0]

	// Act
	first[0].Features[0] = "unlimited followers"
	first[0].Features = append(first[0].Features, "extra")

	// Assert
	again := domain.Tiers()
	if got := again[0].Features[0]; got != want {
		t.Errorf("catalog changed through a returned tier: got %q, want %q", got, want)
	}
	if got := domain.MustTier(domain.SneakPeek).Features[0]; got != want {
		t.Errorf("MustTier sees %q, want %q", got, want)
	}
}

func TestUpgradePrice_IsTierDifference(t *testing.T) {
	if got := domain.UpgradePrice(); got != 10 {
		t.Errorf("got %d, want 10", got)
	}
}

func TestParseTier_ReturnsIndependentCopy(t *testing.T) {
	// Arrange
	tier, err := domain.ParseTier("sweet_spot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := tier.Features[0]

	// Act
	tier.Features[0] = "changed"

	// Assert
	if got := domain.MustTier(domain.SweetSpot).Features[0]; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
