package postgres

import (
	"context"

	"example.com/getfit/internal/domain"
)

// FriendshipRepository implements domain.FriendshipRepository on Postgres.
type FriendshipRepository struct {
	*Repository
}

// NewFriendshipRepository constructs a FriendshipRepository.
func NewFriendshipRepository(repo *Repository) *FriendshipRepository {
	return &FriendshipRepository{Repository: repo}
}

// Exists reports whether the two users are already linked, in either direction.
func (r *FriendshipRepository) Exists(ctx context.Context, userA, userB string) (bool, error) {
	const query = `SELECT EXISTS (
        SELECT 1 FROM friendships
        WHERE (user_a=$1 AND user_b=$2) OR (user_a=$2 AND user_b=$1))`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userA, userB).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create persists the friendship.
func (r *FriendshipRepository) Create(ctx context.Context, friendship domain.Friendship) error {
	const stmt = `INSERT INTO friendships (friendship_id, user_a, user_b, created_at)
        VALUES ($1,$2,$3,$4)`

	_, err := r.pool.Exec(ctx, stmt, friendship.ID, friendship.UserA, friendship.UserB, friendship.CreatedAt)
	return err
}

// FriendIDs returns the IDs of everyone linked to the user, regardless
// of which side initiated the friendship.
func (r *FriendshipRepository) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT CASE WHEN user_a=$1 THEN user_b ELSE user_a END
        FROM friendships
        WHERE user_a=$1 OR user_b=$1
        ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
