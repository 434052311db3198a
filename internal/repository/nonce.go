package repository

import (
	"context"

	"github.com/msafer/waitlist/internal/domain"
)

// Nonce defines data access for in-flight verification challenges
type Nonce interface {
	Create(ctx context.Context, attempt *domain.LinkAttempt) error

	// ConsumeByNonce atomically deletes the attempt identified by nonce and
	// returns it. Exactly one concurrent caller can succeed for a given
	// nonce; all others get domain.ErrNonceNotFound. The expiry check is the
	// caller's job - the row is returned even when expired so the service
	// can distinguish Expired from NotFound.
	ConsumeByNonce(ctx context.Context, nonce string) (*domain.LinkAttempt, error)

	// DeleteForProfile invalidates any live attempt for the (user, profile)
	// pair so only one challenge is outstanding at a time. For sign-in
	// challenges userID is empty and the owner address keys the supersede.
	DeleteForProfile(ctx context.Context, userID, ownerAddress, profileID string) error

	// PurgeExpired removes attempts past their expiry, returning the count
	PurgeExpired(ctx context.Context) (int64, error)
}
