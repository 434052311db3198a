// Package audit appends an immutable log entry for every state-changing
// action. Recording is best-effort: a failed write is reported to the logs
// but never rolls back or fails the primary mutation.
package audit

import (
	"context"

	"github.com/msafer/waitlist/internal/domain"
	"github.com/msafer/waitlist/internal/logger"
	"github.com/msafer/waitlist/internal/metrics"
	"github.com/msafer/waitlist/internal/repository"
)

// Recorder is the write-side interface state-changing services depend on
type Recorder interface {
	// Record appends one audit entry. It never fails the caller.
	Record(ctx context.Context, userID, action string, details map[string]interface{})
}

// Service adds the read side used by the admin surface
type Service interface {
	Recorder

	// History returns recent entries for a user, newest first
	History(ctx context.Context, userID string, limit int) ([]domain.AuditEntry, error)
}

type service struct {
	repo repository.Audit
}

// NewService creates a new audit service
func NewService(repo repository.Audit) Service {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, userID, action string, details map[string]interface{}) {
	if err := s.repo.Append(ctx, userID, action, details); err != nil {
		// Swallowed by contract: audit writes must not fail the mutation
		logger.FromContext(ctx).Error("Failed to append audit entry",
			"error", err,
			"user_id", userID,
			"action", action)
		metrics.AuditWriteFailures.Inc()
		return
	}
	metrics.AuditEntriesTotal.WithLabelValues(action).Inc()
}

func (s *service) History(ctx context.Context, userID string, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListByUser(ctx, userID, limit)
}
