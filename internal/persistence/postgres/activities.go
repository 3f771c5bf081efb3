package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"example.com/getfit/internal/domain"
	"example.com/getfit/internal/events"
	"example.com/getfit/internal/observability"
)

// ActivityRepository implements domain.ActivityRepository on Postgres.
type ActivityRepository struct {
	*Repository
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(repo *Repository) *ActivityRepository {
	return &ActivityRepository{Repository: repo}
}

const activityColumns = `activity_id, user_id, activity_type, duration_minutes, calories, notes, occurred_at, created_at`

// Create persists the activity and records its outbox event inside a
// single transaction.
func (r *ActivityRepository) Create(ctx context.Context, activity domain.Activity) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const stmt = `INSERT INTO activities (activity_id, user_id, activity_type, duration_minutes, calories, notes, occurred_at, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err = tx.Exec(ctx, stmt,
		activity.ID,
		activity.UserID,
		activity.Type,
		activity.DurationMinutes,
		activity.Calories,
		activity.Notes,
		activity.OccurredAt,
		activity.CreatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, "activity.logged", activity.UserID, events.ActivityLogged{
		ActivityID:      activity.ID,
		UserID:          activity.UserID,
		ActivityType:    string(activity.Type),
		DurationMinutes: activity.DurationMinutes,
		Calories:        activity.Calories,
		OccurredAt:      activity.OccurredAt,
	}); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}
	observability.RecordActivityLogged(string(activity.Type), activity.CreatedAt)
	return nil
}

// ListByUser returns a newest-first page of activities with keyset pagination.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.Activity, *domain.Cursor, error) {
	args := []interface{}{userID, limit}
	query := `SELECT ` + activityColumns + ` FROM activities WHERE user_id=$1`

	if cursor != nil {
		query += ` AND (occurred_at, activity_id) < ($3, $4)`
		args = append(args, cursor.OccurredAt, cursor.ID)
	}

	query += ` ORDER BY occurred_at DESC, activity_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results, err := scanActivities(rows, limit)
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		nextCursor = &domain.Cursor{OccurredAt: last.OccurredAt, ID: last.ID}
	}

	return results, nextCursor, nil
}

// HistoryByUser returns the user's full activity history, newest first.
// Streak computation needs every record, not a page.
func (r *ActivityRepository) HistoryByUser(ctx context.Context, userID string) ([]domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE user_id=$1 ORDER BY occurred_at DESC, activity_id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows, 0)
}

func scanActivities(rows pgx.Rows, capacity int) ([]domain.Activity, error) {
	results := make([]domain.Activity, 0, capacity)
	for rows.Next() {
		var activity domain.Activity
		if err := rows.Scan(
			&activity.ID,
			&activity.UserID,
			&activity.Type,
			&activity.DurationMinutes,
			&activity.Calories,
			&activity.Notes,
			&activity.OccurredAt,
			&activity.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
