package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Nonce errors. Expired is deliberately distinct from not-found so
	// clients can tell a stale challenge from a bogus one.
	ErrMsgNonceNotFound = "nonce not found"
	ErrMsgNonceExpired  = "nonce expired"

	// Linking errors
	ErrMsgAlreadyLinked      = "identity already linked"
	ErrMsgFarcasterOwnership = "farcaster account not owned by wallet"

	// Auth errors
	ErrMsgInvalidSignature = "invalid signature"
	ErrMsgAddressMismatch  = "recovered address does not match"
	ErrMsgMessageExpired   = "message expired"
	ErrMsgUnauthenticated  = "authentication required"
	ErrMsgUnauthorized     = "not authorized"

	// Rate limiting
	ErrMsgRateLimited = "rate limit exceeded"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Nonce errors
	ErrNonceNotFound = errors.New(ErrMsgNonceNotFound)
	ErrNonceExpired  = errors.New(ErrMsgNonceExpired)

	// Linking errors
	ErrAlreadyLinked      = errors.New(ErrMsgAlreadyLinked)
	ErrFarcasterOwnership = errors.New(ErrMsgFarcasterOwnership)

	// Auth errors
	ErrInvalidSignature = errors.New(ErrMsgInvalidSignature)
	ErrAddressMismatch  = errors.New(ErrMsgAddressMismatch)
	ErrMessageExpired   = errors.New(ErrMsgMessageExpired)
	ErrUnauthenticated  = errors.New(ErrMsgUnauthenticated)
	ErrUnauthorized     = errors.New(ErrMsgUnauthorized)

	// Rate limiting
	ErrRateLimited = errors.New(ErrMsgRateLimited)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
