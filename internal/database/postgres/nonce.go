package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msafer/waitlist/internal/domain"
)

// NonceRepository implements repository.Nonce for PostgreSQL
type NonceRepository struct {
	db *pgxpool.Pool
}

// NewNonceRepository creates a new NonceRepository
func NewNonceRepository(db *pgxpool.Pool) *NonceRepository {
	return &NonceRepository{db: db}
}

// Create stores a new link attempt
func (r *NonceRepository) Create(ctx context.Context, attempt *domain.LinkAttempt) error {
	query := `
		INSERT INTO link_attempts (user_id, profile_id, owner_address, nonce, created_at, expires_at)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6)
		RETURNING attempt_id
	`
	err := r.db.QueryRow(ctx, query,
		attempt.UserID,
		attempt.ProfileID,
		attempt.OwnerAddress,
		attempt.Nonce,
		attempt.CreatedAt,
		attempt.ExpiresAt,
	).Scan(&attempt.ID)
	if err != nil {
		return fmt.Errorf("failed to create link attempt: %w", err)
	}
	return nil
}

// ConsumeByNonce deletes the attempt and returns it in one statement.
// DELETE ... RETURNING is the compare-and-delete: under concurrent consume
// calls exactly one caller gets the row, the rest see ErrNoRows.
func (r *NonceRepository) ConsumeByNonce(ctx context.Context, nonce string) (*domain.LinkAttempt, error) {
	query := `
		DELETE FROM link_attempts
		WHERE nonce = $1
		RETURNING attempt_id, COALESCE(user_id::text, ''), profile_id, owner_address, nonce, created_at, expires_at
	`
	var attempt domain.LinkAttempt
	err := r.db.QueryRow(ctx, query, nonce).Scan(
		&attempt.ID,
		&attempt.UserID,
		&attempt.ProfileID,
		&attempt.OwnerAddress,
		&attempt.Nonce,
		&attempt.CreatedAt,
		&attempt.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNonceNotFound
		}
		return nil, fmt.Errorf("failed to consume nonce: %w", err)
	}
	return &attempt, nil
}

// DeleteForProfile invalidates outstanding attempts for a (user, profile)
// pair. Sign-in attempts carry no user row, so those are keyed by owner.
func (r *NonceRepository) DeleteForProfile(ctx context.Context, userID, ownerAddress, profileID string) error {
	var err error
	if userID == "" {
		query := `DELETE FROM link_attempts WHERE user_id IS NULL AND owner_address = $1 AND profile_id = $2`
		_, err = r.db.Exec(ctx, query, ownerAddress, profileID)
	} else {
		query := `DELETE FROM link_attempts WHERE user_id = $1 AND profile_id = $2`
		_, err = r.db.Exec(ctx, query, userID, profileID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete link attempts: %w", err)
	}
	return nil
}

// PurgeExpired removes attempts past their expiry
func (r *NonceRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM link_attempts WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired attempts: %w", err)
	}
	return tag.RowsAffected(), nil
}
