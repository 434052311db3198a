// Package nonce issues and consumes the single-use, time-limited challenges
// backing sign-in and profile-ownership verification.
package nonce

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/msafer/waitlist/internal/domain"
	"github.com/msafer/waitlist/internal/logger"
	"github.com/msafer/waitlist/internal/repository"
)

const (
	// NonceBytes gives 128 bits of entropy, enough to make guessing
	// infeasible within the challenge window
	NonceBytes = 16

	// ChallengeTTL is how long an issued challenge remains valid
	ChallengeTTL = 10 * time.Minute
)

// Service defines the nonce ledger interface
type Service interface {
	// Issue creates a fresh challenge for the (user, profile) pair,
	// superseding any live challenge for the same pair
	Issue(ctx context.Context, userID, profileID, ownerAddress string) (*domain.LinkAttempt, error)

	// Consume redeems a nonce at most once. Returns ErrNonceNotFound for
	// unknown or already-consumed nonces and ErrNonceExpired for stale ones
	// (the stale record is purged as a side effect).
	Consume(ctx context.Context, nonce string) (*domain.LinkAttempt, error)

	// PurgeExpired removes challenges past their expiry
	PurgeExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo repository.Nonce
	now  func() time.Time
}

// NewService creates a new nonce ledger service
func NewService(repo repository.Nonce) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Issue(ctx context.Context, userID, profileID, ownerAddress string) (*domain.LinkAttempt, error) {
	log := logger.FromContext(ctx)

	// Supersede any outstanding challenge for this pair so at most one
	// nonce is live at a time
	if err := s.repo.DeleteForProfile(ctx, userID, ownerAddress, profileID); err != nil {
		log.Warn("Failed to invalidate prior challenge", "error", err, "profile_id", profileID)
	}

	nonceStr, err := generateNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	now := s.now()
	attempt := &domain.LinkAttempt{
		UserID:       userID,
		ProfileID:    profileID,
		OwnerAddress: ownerAddress,
		Nonce:        nonceStr,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ChallengeTTL),
	}

	if err := s.repo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}

	log.Info("Challenge issued", "profile_id", profileID, "expires_at", attempt.ExpiresAt)
	return attempt, nil
}

func (s *service) Consume(ctx context.Context, nonce string) (*domain.LinkAttempt, error) {
	if nonce == "" {
		return nil, domain.ErrNonceNotFound
	}

	// The repository delete-and-return is atomic, so concurrent consumers
	// of the same nonce race at the store and exactly one wins
	attempt, err := s.repo.ConsumeByNonce(ctx, nonce)
	if err != nil {
		return nil, err
	}

	if attempt.Expired(s.now()) {
		// Row is already gone; report Expired rather than NotFound so the
		// client can restart the flow instead of suspecting a typo
		return nil, domain.ErrNonceExpired
	}

	return attempt, nil
}

func (s *service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.PurgeExpired(ctx)
}

// generateNonce creates a cryptographically random hex nonce
func generateNonce() (string, error) {
	buf := make([]byte, NonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
