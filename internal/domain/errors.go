package domain

import "errors"

// ValidationError is an input problem shown inline to the user.
// It never reaches the pipeline or the simulator.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	// ErrHandleEmpty is returned when no handle was entered.
	ErrHandleEmpty = &ValidationError{Field: "handle", Message: "Please enter a Twitter handle"}

	// ErrHandleInvalid is returned when the handle fails the length/character rule.
	ErrHandleInvalid = &ValidationError{Field: "handle", Message: "Please enter a valid Twitter handle (4-15 characters)"}

	// ErrTierMissing is returned when no tier was selected.
	ErrTierMissing = &ValidationError{Field: "tier", Message: "Please select a hunting tier"}

	// ErrTierUnknown is returned for a tier token that is not one of the two tiers.
	ErrTierUnknown = &ValidationError{Field: "tier", Message: "Please select a hunting tier"}

	// ErrKeywordTooLong is returned when the keyword filter exceeds MaxKeywordLength.
	ErrKeywordTooLong = &ValidationError{Field: "keyword", Message: "Keyword cannot be longer than 8 characters"}

	// ErrEmailInvalid is returned by checkout for a malformed email address.
	ErrEmailInvalid = &ValidationError{Field: "email", Message: "Please enter a valid email address"}

	// ErrUpgradeTier is returned when an upgrade checkout names a tier other than Sweet Spot.
	ErrUpgradeTier = &ValidationError{Field: "tier", Message: "Upgrades always move a hunt to Sweet Spot"}

	// ErrUpgradePrice is returned when an upgrade checkout carries prices that do not match the tiers.
	ErrUpgradePrice = &ValidationError{Field: "upgradePrice", Message: "This upgrade offer is no longer valid"}

	// ErrListNameRequired is returned when creating a list without a name.
	ErrListNameRequired = &ValidationError{Field: "name", Message: "List name is required"}
)

var (
	// ErrInvalidCount is returned when asked to generate a negative number of profiles.
	ErrInvalidCount = errors.New("profile count must not be negative")

	// ErrHuntNotFound is returned for an unknown or expired hunt.
	ErrHuntNotFound = errors.New("hunt not found")

	// ErrHuntNotReady is returned when results are requested before hand-off.
	ErrHuntNotReady = errors.New("hunt is still in progress")

	// ErrHuntCancelled is returned for a hunt whose view was torn down.
	ErrHuntCancelled = errors.New("hunt was cancelled")

	// ErrTierFeature is returned when a tier does not include the requested feature.
	ErrTierFeature = errors.New("feature not included in this tier")

	// ErrCheckoutFailed is the simulated, recoverable payment failure.
	ErrCheckoutFailed = errors.New("mock payment failed")

	// ErrProfileNotFound is returned when selecting a profile the hunt did not produce.
	ErrProfileNotFound = errors.New("profile not found in this hunt")

	// ErrListNotFound is returned for an unknown named list.
	ErrListNotFound = errors.New("list not found")

	// ErrExportNotFound is returned for an unknown or expired export link.
	ErrExportNotFound = errors.New("export not found or expired")

	// ErrRateLimited is returned when rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
