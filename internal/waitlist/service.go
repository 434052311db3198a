// Package waitlist implements the signup queue: wallet sign-in, joining,
// social identity linking with priority scoring, and ranked status reads.
package waitlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/msafer/waitlist/internal/audit"
	"github.com/msafer/waitlist/internal/domain"
	"github.com/msafer/waitlist/internal/logger"
	"github.com/msafer/waitlist/internal/metrics"
	"github.com/msafer/waitlist/internal/nonce"
	"github.com/msafer/waitlist/internal/repository"
	"github.com/msafer/waitlist/internal/siwe"
)

// FarcasterVerifier resolves the wallet addresses a Farcaster account has
// verified on-network
type FarcasterVerifier interface {
	VerifiedAddresses(ctx context.Context, fid int64) ([]string, error)
}

// StatusInfo is the user's current standing in the queue. Position is 0 once
// an admin decision has been made.
type StatusInfo struct {
	User     *domain.User `json:"user"`
	Position int          `json:"position,omitempty"`
}

// LensChallengeInfo carries an issued Lens ownership challenge back to the
// client. The client signs Message with the profile owner's wallet.
type LensChallengeInfo struct {
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service defines the waitlist service interface
type Service interface {
	// StartSignIn issues a sign-in challenge for the wallet
	StartSignIn(ctx context.Context, address string) (*siwe.Message, error)

	// CompleteSignIn verifies a signed challenge and returns the canonical
	// (lowercase) wallet address on success
	CompleteSignIn(ctx context.Context, message, signature string) (string, error)

	// Join registers the wallet on the waitlist. Idempotent: re-joining
	// returns the existing record with created=false.
	Join(ctx context.Context, wallet string) (*domain.User, bool, error)

	// Status returns the user's record and live queue position
	Status(ctx context.Context, wallet string) (*StatusInfo, error)

	// LinkFarcaster verifies the wallet is among the FID's verified
	// addresses and awards priority points
	LinkFarcaster(ctx context.Context, wallet string, fid int64) (*domain.User, error)

	// StartLensLink issues an ownership challenge for a Lens profile
	StartLensLink(ctx context.Context, wallet, profileID, ownerAddress string) (*LensChallengeInfo, error)

	// VerifyLensLink redeems a Lens challenge and awards priority points
	VerifyLensLink(ctx context.Context, wallet, nonceValue, signature string) (*domain.User, error)
}

type service struct {
	users      repository.User
	nonces     nonce.Service
	farcaster  FarcasterVerifier
	audit      audit.Recorder
	siweDomain string
	now        func() time.Time
}

// NewService creates a new waitlist service
func NewService(users repository.User, nonces nonce.Service, farcaster FarcasterVerifier, recorder audit.Recorder, siweDomain string) Service {
	return &service{
		users:      users,
		nonces:     nonces,
		farcaster:  farcaster,
		audit:      recorder,
		siweDomain: siweDomain,
		now:        time.Now,
	}
}

func (s *service) StartSignIn(ctx context.Context, address string) (*siwe.Message, error) {
	address = strings.ToLower(address)

	attempt, err := s.nonces.Issue(ctx, "", domain.SignInProfileID, address)
	if err != nil {
		return nil, fmt.Errorf("failed to issue sign-in challenge: %w", err)
	}
	metrics.ChallengesIssued.Inc()

	return &siwe.Message{
		Domain:         s.siweDomain,
		Address:        address,
		Statement:      siwe.DefaultStatement,
		Nonce:          attempt.Nonce,
		IssuedAt:       attempt.CreatedAt,
		ExpirationTime: attempt.ExpiresAt,
	}, nil
}

func (s *service) CompleteSignIn(ctx context.Context, message, signature string) (string, error) {
	msg, err := siwe.Parse(message)
	if err != nil {
		return "", err
	}
	if err := msg.Validate(s.now()); err != nil {
		return "", err
	}

	// Signature check comes before nonce consumption so a forged request
	// cannot burn someone else's live challenge
	if err := siwe.Verify(message, signature, msg.Address); err != nil {
		return "", err
	}

	attempt, err := s.nonces.Consume(ctx, msg.Nonce)
	if err != nil {
		return "", err
	}
	if attempt.ProfileID != domain.SignInProfileID || !strings.EqualFold(attempt.OwnerAddress, msg.Address) {
		return "", fmt.Errorf("%w: challenge bound to a different wallet", domain.ErrInvalidSignature)
	}

	wallet := strings.ToLower(msg.Address)
	if user, err := s.users.GetByWallet(ctx, wallet); err == nil {
		s.audit.Record(ctx, user.ID, domain.ActionSignedIn, map[string]interface{}{"wallet": wallet})
	}

	metrics.SignInsTotal.Inc()
	logger.FromContext(ctx).Info("Sign-in completed", "wallet", wallet)
	return wallet, nil
}

func (s *service) Join(ctx context.Context, wallet string) (*domain.User, bool, error) {
	user := &domain.User{
		WalletAddress: strings.ToLower(wallet),
		Status:        domain.StatusPending,
	}

	created, err := s.users.InsertIfAbsent(ctx, user)
	if err != nil {
		return nil, false, fmt.Errorf("failed to join waitlist: %w", err)
	}

	if created {
		s.audit.Record(ctx, user.ID, domain.ActionJoined, map[string]interface{}{"wallet": user.WalletAddress})
		metrics.SignupsTotal.Inc()
		logger.FromContext(ctx).Info("Wallet joined waitlist", "user_id", user.ID)
	}

	return user, created, nil
}

func (s *service) Status(ctx context.Context, wallet string) (*StatusInfo, error) {
	user, err := s.users.GetByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}

	info := &StatusInfo{User: user}
	if user.Status.IsTerminal() {
		return info, nil
	}

	waitlisted, err := s.users.ListWaitlisted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute queue position: %w", err)
	}
	info.Position = PositionOf(Rank(waitlisted), user.ID)
	return info, nil
}

func (s *service) LinkFarcaster(ctx context.Context, wallet string, fid int64) (*domain.User, error) {
	user, err := s.users.GetByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if user.HasFarcaster() {
		return nil, fmt.Errorf("%w: farcaster", domain.ErrAlreadyLinked)
	}

	verified, err := s.farcaster.VerifiedAddresses(ctx, fid)
	if err != nil {
		return nil, fmt.Errorf("failed to look up farcaster verifications: %w", err)
	}
	if !containsAddress(verified, user.WalletAddress) {
		return nil, fmt.Errorf("%w: fid %d", domain.ErrFarcasterOwnership, fid)
	}

	if err := ApplyLinkEvent(user, LinkEventFarcaster); err != nil {
		return nil, err
	}
	user.FarcasterFID = &fid

	if err := s.users.Update(ctx, *user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, user.ID, domain.ActionFarcasterLinked, map[string]interface{}{
		"fid":    fid,
		"points": FarcasterLinkPoints,
	})
	metrics.SocialLinksTotal.WithLabelValues(string(LinkEventFarcaster)).Inc()
	logger.FromContext(ctx).Info("Farcaster account linked", "user_id", user.ID, "fid", fid)
	return user, nil
}

func (s *service) StartLensLink(ctx context.Context, wallet, profileID, ownerAddress string) (*LensChallengeInfo, error) {
	user, err := s.users.GetByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if user.HasLens() {
		return nil, fmt.Errorf("%w: lens", domain.ErrAlreadyLinked)
	}

	ownerAddress = strings.ToLower(ownerAddress)
	attempt, err := s.nonces.Issue(ctx, user.ID, profileID, ownerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to issue lens challenge: %w", err)
	}
	metrics.ChallengesIssued.Inc()

	return &LensChallengeInfo{
		Nonce:     attempt.Nonce,
		Message:   siwe.LensChallenge(profileID, ownerAddress, attempt.Nonce),
		ExpiresAt: attempt.ExpiresAt,
	}, nil
}

func (s *service) VerifyLensLink(ctx context.Context, wallet, nonceValue, signature string) (*domain.User, error) {
	user, err := s.users.GetByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if user.HasLens() {
		return nil, fmt.Errorf("%w: lens", domain.ErrAlreadyLinked)
	}

	attempt, err := s.nonces.Consume(ctx, nonceValue)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != user.ID {
		// A consumed challenge belonging to another user is indistinguishable
		// from an unknown nonce as far as this caller is concerned
		return nil, domain.ErrNonceNotFound
	}

	// The challenge text is reconstructed server-side from the stored
	// attempt, so the client cannot substitute its own message
	challenge := siwe.LensChallenge(attempt.ProfileID, attempt.OwnerAddress, attempt.Nonce)
	if err := siwe.Verify(challenge, signature, attempt.OwnerAddress); err != nil {
		return nil, err
	}

	if err := ApplyLinkEvent(user, LinkEventLens); err != nil {
		return nil, err
	}
	user.LensProfileID = &attempt.ProfileID
	user.LensOwnerAddress = &attempt.OwnerAddress

	if err := s.users.Update(ctx, *user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, user.ID, domain.ActionLensVerified, map[string]interface{}{
		"profile_id": attempt.ProfileID,
		"owner":      attempt.OwnerAddress,
		"points":     LensVerifyPoints,
	})
	metrics.SocialLinksTotal.WithLabelValues(string(LinkEventLens)).Inc()
	logger.FromContext(ctx).Info("Lens profile verified", "user_id", user.ID, "profile_id", attempt.ProfileID)
	return user, nil
}

func containsAddress(addresses []string, wallet string) bool {
	for _, a := range addresses {
		if strings.EqualFold(a, wallet) {
			return true
		}
	}
	return false
}
