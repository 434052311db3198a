package waitlist

import (
	"sort"

	"github.com/msafer/waitlist/internal/domain"
)

// RankedUser is a user annotated with their 1-based queue position
type RankedUser struct {
	domain.User
	Position int `json:"position"`
}

// Rank orders users by priority score (highest first), then join time
// (earliest first), then wallet address. The full ordering is deterministic
// because wallet addresses are unique. Positions are computed on read and
// never persisted; the input slice is not modified.
func Rank(users []domain.User) []RankedUser {
	sorted := make([]domain.User, len(users))
	copy(sorted, users)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.WalletAddress < b.WalletAddress
	})

	ranked := make([]RankedUser, len(sorted))
	for i, u := range sorted {
		ranked[i] = RankedUser{User: u, Position: i + 1}
	}
	return ranked
}

// PositionOf returns the 1-based queue position of the given user within the
// ranked slice, or 0 when the user is not in the queue
func PositionOf(ranked []RankedUser, userID string) int {
	for _, r := range ranked {
		if r.ID == userID {
			return r.Position
		}
	}
	return 0
}
