package repository

import (
	"context"

	"github.com/msafer/waitlist/internal/domain"
)

// User defines the interface for user persistence
type User interface {
	// InsertIfAbsent creates the user unless a row for the wallet already
	// exists. Returns true when a new row was created. On conflict the
	// existing row is loaded into user. Uniqueness of the wallet address is
	// enforced by the backing store, not by application-level locking.
	InsertIfAbsent(ctx context.Context, user *domain.User) (bool, error)

	GetByWallet(ctx context.Context, wallet string) (*domain.User, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)

	// Update persists mutable fields (links, score, status)
	Update(ctx context.Context, user domain.User) error

	// ListWaitlisted returns all users still awaiting an admin decision
	// (PENDING and PRIORITY_LENS)
	ListWaitlisted(ctx context.Context) ([]domain.User, error)

	// CountByStatus returns aggregate user counts per status
	CountByStatus(ctx context.Context) (map[domain.Status]int, error)
}
