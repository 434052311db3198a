package waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/msafer/waitlist/internal/audit"
	"github.com/msafer/waitlist/internal/domain"
	"github.com/msafer/waitlist/internal/logger"
	"github.com/msafer/waitlist/internal/metrics"
	"github.com/msafer/waitlist/internal/repository"
)

// UserDecision records the outcome of a review decision for one user. Error
// is empty on success.
type UserDecision struct {
	UserID string `json:"user_id"`
	Error  string `json:"error,omitempty"`
}

// BatchResult reports per-user outcomes of a batch review. One user failing
// never aborts the rest of the batch.
type BatchResult struct {
	Decided  []UserDecision `json:"decided"`
	Failed   []UserDecision `json:"failed,omitempty"`
	Decision domain.Status  `json:"decision"`
}

// Stats aggregates the queue by status
type Stats struct {
	Total    int                   `json:"total"`
	ByStatus map[domain.Status]int `json:"by_status"`
}

// AdminService defines the review operations behind the admin gate
type AdminService interface {
	// Approve moves users to APPROVED. Either explicit userIDs or a count
	// of the highest-ranked waitlisted users (when userIDs is empty).
	Approve(ctx context.Context, userIDs []string, count int) (*BatchResult, error)

	// Reject moves users to REJECTED by explicit ID
	Reject(ctx context.Context, userIDs []string) (*BatchResult, error)

	// Stats returns per-status user counts
	Stats(ctx context.Context) (*Stats, error)

	// Queue returns all waitlisted users in rank order
	Queue(ctx context.Context) ([]RankedUser, error)
}

type adminService struct {
	users repository.User
	audit audit.Recorder
}

// NewAdminService creates a new admin review service
func NewAdminService(users repository.User, recorder audit.Recorder) AdminService {
	return &adminService{users: users, audit: recorder}
}

func (s *adminService) Approve(ctx context.Context, userIDs []string, count int) (*BatchResult, error) {
	if len(userIDs) == 0 {
		if count <= 0 {
			return nil, fmt.Errorf("%w: either user_ids or a positive count is required", domain.ErrInvalidInput)
		}
		var err error
		userIDs, err = s.topRankedIDs(ctx, count)
		if err != nil {
			return nil, err
		}
	}
	return s.decide(ctx, userIDs, domain.StatusApproved, domain.ActionApproved)
}

func (s *adminService) Reject(ctx context.Context, userIDs []string) (*BatchResult, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("%w: user_ids is required", domain.ErrInvalidInput)
	}
	return s.decide(ctx, userIDs, domain.StatusRejected, domain.ActionRejected)
}

// decide applies one terminal status to each user independently, recording
// per-user failures instead of aborting the batch
func (s *adminService) decide(ctx context.Context, userIDs []string, status domain.Status, action string) (*BatchResult, error) {
	log := logger.FromContext(ctx)
	result := &BatchResult{Decision: status}

	for _, id := range userIDs {
		if err := s.decideOne(ctx, id, status, action); err != nil {
			log.Warn("Review decision failed", "user_id", id, "decision", status, "error", err)
			result.Failed = append(result.Failed, UserDecision{UserID: id, Error: reviewFailureMessage(err)})
			continue
		}
		result.Decided = append(result.Decided, UserDecision{UserID: id})
		metrics.ReviewDecisionsTotal.WithLabelValues(string(status)).Inc()
	}

	log.Info("Batch review completed",
		"decision", status,
		"decided", len(result.Decided),
		"failed", len(result.Failed))
	return result, nil
}

func (s *adminService) decideOne(ctx context.Context, userID string, status domain.Status, action string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Status.IsTerminal() {
		return fmt.Errorf("%w: already %s", domain.ErrInvalidInput, user.Status)
	}

	user.Status = status
	if err := s.users.Update(ctx, *user); err != nil {
		return err
	}

	s.audit.Record(ctx, user.ID, action, map[string]interface{}{
		"wallet": user.WalletAddress,
		"score":  user.PriorityScore,
	})
	return nil
}

// topRankedIDs picks the count best-placed users still awaiting a decision
func (s *adminService) topRankedIDs(ctx context.Context, count int) ([]string, error) {
	waitlisted, err := s.users.ListWaitlisted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlisted users: %w", err)
	}

	ranked := Rank(waitlisted)
	if count > len(ranked) {
		count = len(ranked)
	}

	ids := make([]string, 0, count)
	for _, r := range ranked[:count] {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func (s *adminService) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.users.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{ByStatus: counts}
	for _, c := range counts {
		stats.Total += c
	}
	return stats, nil
}

func (s *adminService) Queue(ctx context.Context) ([]RankedUser, error) {
	waitlisted, err := s.users.ListWaitlisted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlisted users: %w", err)
	}
	return Rank(waitlisted), nil
}

// reviewFailureMessage keeps persistence detail out of the admin response
func reviewFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return domain.ErrMsgUserNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error()
	default:
		return "internal error"
	}
}
