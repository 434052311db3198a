package waitlist

import (
	"fmt"

	"github.com/msafer/waitlist/internal/domain"
)

// Priority points awarded per linked identity type
const (
	FarcasterLinkPoints = 50
	LensVerifyPoints    = 100
)

// LinkEvent identifies which social identity was verified
type LinkEvent string

const (
	LinkEventFarcaster LinkEvent = "farcaster"
	LinkEventLens      LinkEvent = "lens"
)

// ApplyLinkEvent awards the priority points for a verified identity link,
// mutating the user in place. Each identity type scores at most once: a
// second link of the same type returns ErrAlreadyLinked and leaves the user
// untouched. A Lens verification promotes PENDING to PRIORITY_LENS, but a
// terminal admin decision is never overwritten.
func ApplyLinkEvent(user *domain.User, event LinkEvent) error {
	switch event {
	case LinkEventFarcaster:
		if user.HasFarcaster() {
			return fmt.Errorf("%w: farcaster", domain.ErrAlreadyLinked)
		}
		user.PriorityScore += FarcasterLinkPoints
	case LinkEventLens:
		if user.HasLens() {
			return fmt.Errorf("%w: lens", domain.ErrAlreadyLinked)
		}
		user.PriorityScore += LensVerifyPoints
		if !user.Status.IsTerminal() {
			user.Status = domain.StatusPriorityLens
		}
	default:
		return fmt.Errorf("%w: unknown link event %q", domain.ErrInvalidInput, event)
	}
	return nil
}
