package domain

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxKeywordLength caps the optional keyword filter, in characters.
const MaxKeywordLength = 8

var handleRegex = regexp.MustCompile(`^[A-Za-z0-9_]{4,15}$`)

// NormalizeHandle trims whitespace and a single leading '@'.
func NormalizeHandle(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "@")
}

// ValidateHandle normalizes raw and checks it against the handle rule.
func ValidateHandle(raw string) (string, error) {
	handle := NormalizeHandle(raw)
	if handle == "" {
		return "", ErrHandleEmpty
	}
	if !handleRegex.MatchString(handle) {
		return "", ErrHandleInvalid
	}
	return handle, nil
}

// ValidateKeyword checks the optional keyword filter length.
func ValidateKeyword(keyword string) error {
	if utf8.RuneCountInString(keyword) > MaxKeywordLength {
		return ErrKeywordTooLong
	}
	return nil
}

// Target is what the user asked to hunt.
type Target struct {
	Handle   string `json:"handle"`
	Tier     TierID `json:"tier"`
	Keyword  string `json:"keyword,omitempty"`
	Location string `json:"location,omitempty"`
}

// ValidateTarget checks a raw form submission in the order the form
// reports problems: handle presence, tier, handle shape, keyword.
func ValidateTarget(handle, tier, keyword, location string) (Target, error) {
	if NormalizeHandle(handle) == "" {
		return Target{}, ErrHandleEmpty
	}
	t, err := ParseTier(tier)
	if err != nil {
		return Target{}, err
	}
	clean, err := ValidateHandle(handle)
	if err != nil {
		return Target{}, err
	}
	keyword = strings.TrimSpace(keyword)
	if err := ValidateKeyword(keyword); err != nil {
		return Target{}, err
	}
	return Target{
		Handle:   clean,
		Tier:     t.ID,
		Keyword:  keyword,
		Location: strings.TrimSpace(location),
	}, nil
}

// ValidateEmail checks the checkout email. Display names are rejected.
func ValidateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrEmailInvalid
	}
	return email, nil
}
