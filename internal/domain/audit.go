package domain

import "time"

// Audit action labels recorded for state-changing operations
const (
	ActionSignedIn        = "SIGNED_IN"
	ActionJoined          = "JOINED"
	ActionFarcasterLinked = "FARCASTER_LINKED"
	ActionLensVerified    = "LENS_VERIFIED"
	ActionApproved        = "APPROVED"
	ActionRejected        = "REJECTED"
)

// AuditEntry is one append-only audit log record. Entries are never mutated
// or deleted after creation.
type AuditEntry struct {
	ID        int64                  `json:"id"`
	UserID    string                 `json:"user_id"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
