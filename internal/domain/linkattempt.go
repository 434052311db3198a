package domain

import "time"

// SignInProfileID is the reserved profile identifier for sign-in challenges.
// Sign-in reuses the link-attempt machinery before a user row exists, so
// UserID may be empty for attempts carrying this profile ID.
const SignInProfileID = "siwe"

// LinkAttempt is one in-flight verification challenge binding a nonce to a
// (user, external profile) pair. Attempts are single-use: consumption deletes
// the row so a nonce can never be redeemed twice.
type LinkAttempt struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	ProfileID    string    `json:"profile_id"`
	OwnerAddress string    `json:"owner_address"`
	Nonce        string    `json:"nonce"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the attempt is past its expiry at the given time
func (a *LinkAttempt) Expired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}
