package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Auth error messages
	ErrMsgSignInFailed        = "Sign-in failed. Request a fresh challenge and try again."
	ErrMsgSessionRequired     = "Sign in to use this endpoint"
	ErrMsgChallengeNotFound   = "Challenge not found or already used"
	ErrMsgChallengeExpired    = "Challenge expired. Request a new one."
	ErrMsgSignatureRejected   = "Signature verification failed"
	ErrMsgAdminKeyRejected    = "Invalid admin key"
	ErrMsgTooManyRequests     = "Too many requests. Please try again later."
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgNotOnWaitlist       = "Wallet is not on the waitlist"
	ErrMsgIdentityTaken       = "That identity is already linked"
	ErrMsgOwnershipNotProven  = "Could not verify ownership of that account"
)

// Success messages for API responses
const (
	MsgJoinedWaitlist  = "Joined the waitlist"
	MsgAlreadyOnList   = "Already on the waitlist"
	MsgSignedOut       = "Signed out"
	MsgFarcasterLinked = "Farcaster account linked"
	MsgLensVerified    = "Lens profile verified"
)
