package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"example.com/getfit/internal/domain"
	"example.com/getfit/internal/events"
	"example.com/getfit/internal/observability"
)

// UserRepository implements domain.UserRepository on Postgres.
type UserRepository struct {
	*Repository
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

const userColumns = `user_id, email, password_hash, name, age, gender, fitness_goals,
        current_streak, longest_streak, total_activities, created_at`

// Create persists the user and records the registration event in a
// single transaction.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const stmt = `INSERT INTO users (user_id, email, password_hash, name, age, gender, fitness_goals,
        current_streak, longest_streak, total_activities, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	_, err = tx.Exec(ctx, stmt,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Age,
		user.Gender,
		user.FitnessGoals,
		user.CurrentStreak,
		user.LongestStreak,
		user.TotalActivities,
		user.CreatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, "user.registered", user.ID, events.UserRegistered{
		UserID:       user.ID,
		Email:        user.Email,
		RegisteredAt: user.CreatedAt,
	}); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}
	observability.RecordUserRegistered()
	return nil
}

// FindByEmail looks a user up by email, returning nil when absent.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.findOne(ctx, query, email)
}

// FindByID looks a user up by ID, returning nil when absent.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE user_id=$1`
	return r.findOne(ctx, query, id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, query, arg)

	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Age,
		&user.Gender,
		&user.FitnessGoals,
		&user.CurrentStreak,
		&user.LongestStreak,
		&user.TotalActivities,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateEngagement writes the cached streak counters and activity total.
func (r *UserRepository) UpdateEngagement(ctx context.Context, userID string, currentStreak, longestStreak, totalActivities int) error {
	const stmt = `UPDATE users SET current_streak=$2, longest_streak=$3, total_activities=$4 WHERE user_id=$1`
	_, err := r.pool.Exec(ctx, stmt, userID, currentStreak, longestStreak, totalActivities)
	return err
}
