package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msafer/waitlist/internal/domain"
)

// UserRepository implements repository.User for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `user_id, wallet_address, farcaster_fid, lens_profile_id, lens_owner_address, status, priority_score, created_at, updated_at`

func scanUser(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.ID,
		&u.WalletAddress,
		&u.FarcasterFID,
		&u.LensProfileID,
		&u.LensOwnerAddress,
		&u.Status,
		&u.PriorityScore,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

// InsertIfAbsent creates the user unless the wallet is already registered.
// The unique constraint on wallet_address makes concurrent joins safe: the
// losing insert falls through to loading the winner's row.
func (r *UserRepository) InsertIfAbsent(ctx context.Context, user *domain.User) (bool, error) {
	wallet := strings.ToLower(user.WalletAddress)

	query := `
		INSERT INTO users (wallet_address, status, priority_score)
		VALUES ($1, $2, 0)
		ON CONFLICT (wallet_address) DO NOTHING
		RETURNING ` + userColumns
	err := scanUser(r.db.QueryRow(ctx, query, wallet, domain.StatusPending), user)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("failed to insert user: %w", err)
	}

	existing, err := r.GetByWallet(ctx, wallet)
	if err != nil {
		return false, err
	}
	*user = *existing
	return false, nil
}

// GetByWallet finds a user by wallet address (case-insensitive)
func (r *UserRepository) GetByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE wallet_address = $1`
	var user domain.User
	err := scanUser(r.db.QueryRow(ctx, query, strings.ToLower(wallet)), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by wallet: %w", err)
	}
	return &user, nil
}

// GetByID finds a user by internal ID
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	var user domain.User
	err := scanUser(r.db.QueryRow(ctx, query, userID), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Update persists mutable fields of an existing user
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET farcaster_fid = $2,
		    lens_profile_id = $3,
		    lens_owner_address = $4,
		    status = $5,
		    priority_score = $6,
		    updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		user.ID,
		user.FarcasterFID,
		user.LensProfileID,
		user.LensOwnerAddress,
		user.Status,
		user.PriorityScore,
	)
	if err != nil {
		// A duplicate farcaster_fid trips the partial unique index
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == PgErrorCodeUniqueViolation {
			return fmt.Errorf("%w: identity claimed by another user", domain.ErrAlreadyLinked)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListWaitlisted returns all users still awaiting an admin decision
func (r *UserRepository) ListWaitlisted(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE status IN ($1, $2)
	`
	rows, err := r.db.Query(ctx, query, domain.StatusPending, domain.StatusPriorityLens)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlisted users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountByStatus returns aggregate user counts per status
func (r *UserRepository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM users GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status domain.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
