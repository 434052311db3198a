package waitlist

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/msafer/waitlist/internal/domain"
	"github.com/msafer/waitlist/internal/siwe"
)

// Mock objects
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) InsertIfAbsent(ctx context.Context, user *domain.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) GetByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) ListWaitlisted(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Status]int), args.Error(1)
}

type MockNonceService struct {
	mock.Mock
}

func (m *MockNonceService) Issue(ctx context.Context, userID, profileID, ownerAddress string) (*domain.LinkAttempt, error) {
	args := m.Called(ctx, userID, profileID, ownerAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkAttempt), args.Error(1)
}
func (m *MockNonceService) Consume(ctx context.Context, nonce string) (*domain.LinkAttempt, error) {
	args := m.Called(ctx, nonce)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkAttempt), args.Error(1)
}
func (m *MockNonceService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockFarcaster struct {
	mock.Mock
}

func (m *MockFarcaster) VerifiedAddresses(ctx context.Context, fid int64) ([]string, error) {
	args := m.Called(ctx, fid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, userID, action string, details map[string]interface{}) {
	m.Called(ctx, userID, action, details)
}

// signPersonal produces an Ethereum-style R||S||V hex signature over message
func signPersonal(t *testing.T, priv *secp256k1.PrivateKey, message string) string {
	t.Helper()
	compact := ecdsa.SignCompact(priv, siwe.HashPersonalMessage([]byte(message)), false)
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return "0x" + hex.EncodeToString(sig)
}

func newKey(t *testing.T) (*secp256k1.PrivateKey, string) {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	return priv, siwe.AddressFromPublicKey(priv.PubKey())
}

func newTestService(users *MockUserRepo, nonces *MockNonceService, fc *MockFarcaster, rec *MockRecorder) *service {
	return NewService(users, nonces, fc, rec, "waitlist.example.org").(*service)
}

func TestStartSignIn_IssuesChallenge(t *testing.T) {
	users := new(MockUserRepo)
	nonces := new(MockNonceService)
	now := time.Now()

	nonces.On("Issue", mock.Anything, "", domain.SignInProfileID, "0xabc123").
		Return(&domain.LinkAttempt{
			Nonce:        "deadbeef",
			OwnerAddress: "0xabc123",
			ProfileID:    domain.SignInProfileID,
			CreatedAt:    now,
			ExpiresAt:    now.Add(10 * time.Minute),
		}, nil)

	svc := newTestService(users, nonces, new(MockFarcaster), new(MockRecorder))
	msg, err := svc.StartSignIn(context.Background(), "0xABC123")
	require.NoError(t, err)

	assert.Equal(t, "waitlist.example.org", msg.Domain)
	assert.Equal(t, "0xabc123", msg.Address)
	assert.Equal(t, "deadbeef", msg.Nonce)
	assert.Equal(t, now.Add(10*time.Minute), msg.ExpirationTime)
	nonces.AssertExpectations(t)
}

func TestCompleteSignIn_Success(t *testing.T) {
	priv, addr := newKey(t)
	now := time.Now()

	msg := &siwe.Message{
		Domain:         "waitlist.example.org",
		Address:        addr,
		Statement:      siwe.DefaultStatement,
		Nonce:          "cafe01",
		IssuedAt:       now,
		ExpirationTime: now.Add(10 * time.Minute),
	}
	text := msg.Build()

	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, addr).Return(nil, domain.ErrUserNotFound)

	nonces := new(MockNonceService)
	nonces.On("Consume", mock.Anything, "cafe01").
		Return(&domain.LinkAttempt{ProfileID: domain.SignInProfileID, OwnerAddress: addr, Nonce: "cafe01", ExpiresAt: now.Add(10 * time.Minute)}, nil)

	svc := newTestService(users, nonces, new(MockFarcaster), new(MockRecorder))
	wallet, err := svc.CompleteSignIn(context.Background(), text, signPersonal(t, priv, text))
	require.NoError(t, err)
	assert.Equal(t, addr, wallet)
	nonces.AssertExpectations(t)
}

func TestCompleteSignIn_AuditsExistingUser(t *testing.T) {
	priv, addr := newKey(t)
	now := time.Now()

	msg := &siwe.Message{
		Domain:         "waitlist.example.org",
		Address:        addr,
		Statement:      siwe.DefaultStatement,
		Nonce:          "cafe02",
		IssuedAt:       now,
		ExpirationTime: now.Add(10 * time.Minute),
	}
	text := msg.Build()

	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, addr).
		Return(&domain.User{ID: "u1", WalletAddress: addr, Status: domain.StatusPending}, nil)

	nonces := new(MockNonceService)
	nonces.On("Consume", mock.Anything, "cafe02").
		Return(&domain.LinkAttempt{ProfileID: domain.SignInProfileID, OwnerAddress: addr, Nonce: "cafe02", ExpiresAt: now.Add(10 * time.Minute)}, nil)

	rec := new(MockRecorder)
	rec.On("Record", mock.Anything, "u1", domain.ActionSignedIn, mock.Anything).Return()

	svc := newTestService(users, nonces, new(MockFarcaster), rec)
	_, err := svc.CompleteSignIn(context.Background(), text, signPersonal(t, priv, text))
	require.NoError(t, err)
	rec.AssertExpectations(t)
}

func TestCompleteSignIn_ExpiredMessageSkipsNonce(t *testing.T) {
	priv, addr := newKey(t)
	now := time.Now()

	msg := &siwe.Message{
		Domain:         "waitlist.example.org",
		Address:        addr,
		Statement:      siwe.DefaultStatement,
		Nonce:          "cafe03",
		IssuedAt:       now.Add(-20 * time.Minute),
		ExpirationTime: now.Add(-10 * time.Minute),
	}
	text := msg.Build()

	nonces := new(MockNonceService)
	svc := newTestService(new(MockUserRepo), nonces, new(MockFarcaster), new(MockRecorder))

	_, err := svc.CompleteSignIn(context.Background(), text, signPersonal(t, priv, text))
	assert.ErrorIs(t, err, domain.ErrMessageExpired)

	// The live challenge must survive a stale message replay
	nonces.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
}

func TestCompleteSignIn_ChallengeBoundToOtherWallet(t *testing.T) {
	priv, addr := newKey(t)
	now := time.Now()

	msg := &siwe.Message{
		Domain:         "waitlist.example.org",
		Address:        addr,
		Statement:      siwe.DefaultStatement,
		Nonce:          "cafe04",
		IssuedAt:       now,
		ExpirationTime: now.Add(10 * time.Minute),
	}
	text := msg.Build()

	nonces := new(MockNonceService)
	nonces.On("Consume", mock.Anything, "cafe04").
		Return(&domain.LinkAttempt{ProfileID: domain.SignInProfileID, OwnerAddress: "0x0000000000000000000000000000000000000001", Nonce: "cafe04", ExpiresAt: now.Add(10 * time.Minute)}, nil)

	svc := newTestService(new(MockUserRepo), nonces, new(MockFarcaster), new(MockRecorder))
	_, err := svc.CompleteSignIn(context.Background(), text, signPersonal(t, priv, text))
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestJoin_IdempotentAuditsOnce(t *testing.T) {
	users := new(MockUserRepo)
	users.On("InsertIfAbsent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			u.ID = "u1"
		}).Return(true, nil).Once()
	users.On("InsertIfAbsent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			u.ID = "u1"
		}).Return(false, nil).Once()

	rec := new(MockRecorder)
	rec.On("Record", mock.Anything, "u1", domain.ActionJoined, mock.Anything).Return()

	svc := newTestService(users, new(MockNonceService), new(MockFarcaster), rec)
	ctx := context.Background()

	user, created, err := svc.Join(ctx, "0xABCDEF")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "0xabcdef", user.WalletAddress)

	again, created, err := svc.Join(ctx, "0xABCDEF")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)

	rec.AssertNumberOfCalls(t, "Record", 1)
}

func TestStatus_ComputesQueuePosition(t *testing.T) {
	base := time.Now()
	me := &domain.User{ID: "u2", WalletAddress: "0xbbb", Status: domain.StatusPending, PriorityScore: 20, CreatedAt: base}

	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, "0xbbb").Return(me, nil)
	users.On("ListWaitlisted", mock.Anything).Return([]domain.User{
		{ID: "u1", WalletAddress: "0xaaa", PriorityScore: 10, CreatedAt: base},
		*me,
		{ID: "u3", WalletAddress: "0xccc", PriorityScore: 30, CreatedAt: base},
	}, nil)

	svc := newTestService(users, new(MockNonceService), new(MockFarcaster), new(MockRecorder))
	info, err := svc.Status(context.Background(), "0xbbb")
	require.NoError(t, err)
	assert.Equal(t, 2, info.Position)
}

func TestStatus_TerminalStatusHasNoPosition(t *testing.T) {
	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, "0xaaa").
		Return(&domain.User{ID: "u1", WalletAddress: "0xaaa", Status: domain.StatusApproved}, nil)

	svc := newTestService(users, new(MockNonceService), new(MockFarcaster), new(MockRecorder))
	info, err := svc.Status(context.Background(), "0xaaa")
	require.NoError(t, err)
	assert.Equal(t, 0, info.Position)
	users.AssertNotCalled(t, "ListWaitlisted", mock.Anything)
}

func TestLinkFarcaster_AwardsPointsOnce(t *testing.T) {
	user := &domain.User{ID: "u1", WalletAddress: "0xabc", Status: domain.StatusPending}

	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, "0xabc").Return(user, nil)

	var updated domain.User
	users.On("Update", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { updated = args.Get(1).(domain.User) }).
		Return(nil)

	fc := new(MockFarcaster)
	fc.On("VerifiedAddresses", mock.Anything, int64(42)).Return([]string{"0xABC", "0xdef"}, nil)

	rec := new(MockRecorder)
	rec.On("Record", mock.Anything, "u1", domain.ActionFarcasterLinked, mock.Anything).Return()

	svc := newTestService(users, new(MockNonceService), fc, rec)
	got, err := svc.LinkFarcaster(context.Background(), "0xabc", 42)
	require.NoError(t, err)

	assert.Equal(t, FarcasterLinkPoints, got.PriorityScore)
	require.NotNil(t, got.FarcasterFID)
	assert.Equal(t, int64(42), *got.FarcasterFID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, FarcasterLinkPoints, updated.PriorityScore)
	rec.AssertExpectations(t)
}

func TestLinkFarcaster_SecondLinkRejected(t *testing.T) {
	fid := int64(42)
	user := &domain.User{ID: "u1", WalletAddress: "0xabc", FarcasterFID: &fid, PriorityScore: FarcasterLinkPoints}

	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, "0xabc").Return(user, nil)

	svc := newTestService(users, new(MockNonceService), new(MockFarcaster), new(MockRecorder))
	_, err := svc.LinkFarcaster(context.Background(), "0xabc", 99)
	assert.ErrorIs(t, err, domain.ErrAlreadyLinked)

	// Score unchanged, nothing persisted
	assert.Equal(t, FarcasterLinkPoints, user.PriorityScore)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLinkFarcaster_OwnershipNotProven(t *testing.T) {
	user := &domain.User{ID: "u1", WalletAddress: "0xabc", Status: domain.StatusPending}

	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, "0xabc").Return(user, nil)

	fc := new(MockFarcaster)
	fc.On("VerifiedAddresses", mock.Anything, int64(42)).Return([]string{"0xother"}, nil)

	svc := newTestService(users, new(MockNonceService), fc, new(MockRecorder))
	_, err := svc.LinkFarcaster(context.Background(), "0xabc", 42)
	assert.ErrorIs(t, err, domain.ErrFarcasterOwnership)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestStartLensLink_IssuesChallenge(t *testing.T) {
	user := &domain.User{ID: "u1", WalletAddress: "0xabc", Status: domain.StatusPending}
	now := time.Now()

	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, "0xabc").Return(user, nil)

	nonces := new(MockNonceService)
	nonces.On("Issue", mock.Anything, "u1", "lens/alice", "0xowner").
		Return(&domain.LinkAttempt{UserID: "u1", ProfileID: "lens/alice", OwnerAddress: "0xowner", Nonce: "feed01", ExpiresAt: now.Add(10 * time.Minute)}, nil)

	svc := newTestService(users, nonces, new(MockFarcaster), new(MockRecorder))
	challenge, err := svc.StartLensLink(context.Background(), "0xabc", "lens/alice", "0xOWNER")
	require.NoError(t, err)

	assert.Equal(t, "feed01", challenge.Nonce)
	assert.Contains(t, challenge.Message, "lens/alice")
	assert.Contains(t, challenge.Message, "feed01")
}

func TestStartLensLink_AlreadyVerified(t *testing.T) {
	profile := "lens/alice"
	user := &domain.User{ID: "u1", WalletAddress: "0xabc", LensProfileID: &profile}

	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, "0xabc").Return(user, nil)

	svc := newTestService(users, new(MockNonceService), new(MockFarcaster), new(MockRecorder))
	_, err := svc.StartLensLink(context.Background(), "0xabc", "lens/bob", "0xowner")
	assert.ErrorIs(t, err, domain.ErrAlreadyLinked)
}

func TestVerifyLensLink_AwardsPointsAndPromotes(t *testing.T) {
	priv, owner := newKey(t)
	user := &domain.User{ID: "u1", WalletAddress: "0xabc", Status: domain.StatusPending}
	now := time.Now()

	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, "0xabc").Return(user, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	attempt := &domain.LinkAttempt{UserID: "u1", ProfileID: "lens/alice", OwnerAddress: owner, Nonce: "feed02", ExpiresAt: now.Add(10 * time.Minute)}
	nonces := new(MockNonceService)
	nonces.On("Consume", mock.Anything, "feed02").Return(attempt, nil)

	rec := new(MockRecorder)
	rec.On("Record", mock.Anything, "u1", domain.ActionLensVerified, mock.Anything).Return()

	challenge := siwe.LensChallenge("lens/alice", owner, "feed02")
	svc := newTestService(users, nonces, new(MockFarcaster), rec)

	got, err := svc.VerifyLensLink(context.Background(), "0xabc", "feed02", signPersonal(t, priv, challenge))
	require.NoError(t, err)

	assert.Equal(t, LensVerifyPoints, got.PriorityScore)
	assert.Equal(t, domain.StatusPriorityLens, got.Status)
	require.NotNil(t, got.LensProfileID)
	assert.Equal(t, "lens/alice", *got.LensProfileID)
	rec.AssertExpectations(t)
}

func TestVerifyLensLink_TerminalStatusPreserved(t *testing.T) {
	priv, owner := newKey(t)
	user := &domain.User{ID: "u1", WalletAddress: "0xabc", Status: domain.StatusApproved}
	now := time.Now()

	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, "0xabc").Return(user, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	attempt := &domain.LinkAttempt{UserID: "u1", ProfileID: "lens/alice", OwnerAddress: owner, Nonce: "feed03", ExpiresAt: now.Add(10 * time.Minute)}
	nonces := new(MockNonceService)
	nonces.On("Consume", mock.Anything, "feed03").Return(attempt, nil)

	rec := new(MockRecorder)
	rec.On("Record", mock.Anything, "u1", domain.ActionLensVerified, mock.Anything).Return()

	challenge := siwe.LensChallenge("lens/alice", owner, "feed03")
	svc := newTestService(users, nonces, new(MockFarcaster), rec)

	got, err := svc.VerifyLensLink(context.Background(), "0xabc", "feed03", signPersonal(t, priv, challenge))
	require.NoError(t, err)

	// Approval is never downgraded by a later link
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.Equal(t, LensVerifyPoints, got.PriorityScore)
}

func TestVerifyLensLink_WrongSigner(t *testing.T) {
	otherPriv, _ := newKey(t)
	_, owner := newKey(t)
	user := &domain.User{ID: "u1", WalletAddress: "0xabc", Status: domain.StatusPending}
	now := time.Now()

	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, "0xabc").Return(user, nil)

	attempt := &domain.LinkAttempt{UserID: "u1", ProfileID: "lens/alice", OwnerAddress: owner, Nonce: "feed04", ExpiresAt: now.Add(10 * time.Minute)}
	nonces := new(MockNonceService)
	nonces.On("Consume", mock.Anything, "feed04").Return(attempt, nil)

	challenge := siwe.LensChallenge("lens/alice", owner, "feed04")
	svc := newTestService(users, nonces, new(MockFarcaster), new(MockRecorder))

	_, err := svc.VerifyLensLink(context.Background(), "0xabc", "feed04", signPersonal(t, otherPriv, challenge))
	assert.ErrorIs(t, err, domain.ErrAddressMismatch)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestVerifyLensLink_ForeignNonceRejected(t *testing.T) {
	user := &domain.User{ID: "u1", WalletAddress: "0xabc", Status: domain.StatusPending}
	now := time.Now()

	users := new(MockUserRepo)
	users.On("GetByWallet", mock.Anything, "0xabc").Return(user, nil)

	attempt := &domain.LinkAttempt{UserID: "other-user", ProfileID: "lens/alice", OwnerAddress: "0xowner", Nonce: "feed05", ExpiresAt: now.Add(10 * time.Minute)}
	nonces := new(MockNonceService)
	nonces.On("Consume", mock.Anything, "feed05").Return(attempt, nil)

	svc := newTestService(users, nonces, new(MockFarcaster), new(MockRecorder))
	_, err := svc.VerifyLensLink(context.Background(), "0xabc", "feed05", "0xsig")
	assert.ErrorIs(t, err, domain.ErrNonceNotFound)
}
