package domain

import "time"

// Status represents a user's position in the waitlist approval lifecycle
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusPriorityLens Status = "PRIORITY_LENS"
	StatusApproved     Status = "APPROVED"
	StatusRejected     Status = "REJECTED"
)

// IsTerminal reports whether the status was set by an admin decision.
// Terminal statuses are never overwritten by scoring events.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// User represents a waitlisted wallet. The wallet address is the primary
// identity key and is stored lowercase.
type User struct {
	ID               string    `json:"id"`
	WalletAddress    string    `json:"wallet_address"`
	FarcasterFID     *int64    `json:"farcaster_fid,omitempty"`
	LensProfileID    *string   `json:"lens_profile_id,omitempty"`
	LensOwnerAddress *string   `json:"lens_owner_address,omitempty"`
	Status           Status    `json:"status"`
	PriorityScore    int       `json:"priority_score"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasFarcaster reports whether a Farcaster account is already linked
func (u *User) HasFarcaster() bool {
	return u.FarcasterFID != nil
}

// HasLens reports whether a Lens profile is already verified
func (u *User) HasLens() bool {
	return u.LensProfileID != nil
}
