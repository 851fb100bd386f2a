package domain

import "time"

// Charge is one mock checkout attempt.
type Charge struct {
	Email   string
	Handle  string
	Tier    TierID
	Amount  int
	Upgrade bool

	// OriginalPrice is what was paid for the hunt being upgraded.
	OriginalPrice int
}

// Receipt confirms an approved charge.
type Receipt struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Tier          TierID    `json:"tier"`
	Amount        int       `json:"amount"`
	Upgrade       bool      `json:"upgrade,omitempty"`
	OriginalPrice int       `json:"originalPrice,omitempty"`
	PaidAt        time.Time `json:"paidAt"`
}

// ExportFile describes a stored CSV export reachable by token.
type ExportFile struct {
	Token     string    `json:"token"`
	FileName  string    `json:"fileName"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
