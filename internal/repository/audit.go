package repository

import (
	"context"

	"github.com/msafer/waitlist/internal/domain"
)

// Audit defines the interface for the append-only audit log.
// There are deliberately no update or delete operations.
type Audit interface {
	Append(ctx context.Context, userID, action string, details map[string]interface{}) error

	// ListByUser retrieves recent entries for a user, newest first
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.AuditEntry, error)
}
