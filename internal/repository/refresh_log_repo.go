package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"krolist/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RefreshLogRepository tracks per-user weekly refresh usage. Rows are keyed
// by (user_id, week_start) with a unique constraint, so concurrent commits
// for the same week collapse into one row instead of diverging.
type RefreshLogRepository interface {
	// GetForWeek retrieves the user's refresh log for the given week start,
	// or nil if the user has not refreshed that week.
	GetForWeek(ctx context.Context, userID string, weekStart time.Time) (*model.RefreshLog, error)
	// RecordRefresh creates the week's log with a count of 1, or increments
	// the existing count, and stamps the refresh time.
	RecordRefresh(ctx context.Context, userID string, weekStart, refreshedAt time.Time) error
}

type refreshLogRepo struct {
	pool *pgxpool.Pool
}

// NewRefreshLogRepo creates a new RefreshLogRepository
func NewRefreshLogRepo(pool *pgxpool.Pool) RefreshLogRepository {
	return &refreshLogRepo{pool: pool}
}

// GetForWeek retrieves the user's refresh log for the given week start
func (r *refreshLogRepo) GetForWeek(ctx context.Context, userID string, weekStart time.Time) (*model.RefreshLog, error) {
	query := `
		SELECT id, user_id, week_start, refresh_count, last_refresh_date
		FROM user_refresh_logs
		WHERE user_id = $1 AND week_start = $2
	`
	var l model.RefreshLog
	err := r.pool.QueryRow(ctx, query, userID, weekStart).Scan(
		&l.ID,
		&l.UserID,
		&l.WeekStart,
		&l.RefreshCount,
		&l.LastRefreshDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting refresh log for user %s: %w", userID, err)
	}
	return &l, nil
}

// RecordRefresh upserts the week's refresh log against the unique
// (user_id, week_start) constraint.
func (r *refreshLogRepo) RecordRefresh(ctx context.Context, userID string, weekStart, refreshedAt time.Time) error {
	query := `
		INSERT INTO user_refresh_logs (user_id, week_start, refresh_count, last_refresh_date)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (user_id, week_start)
		DO UPDATE SET refresh_count = user_refresh_logs.refresh_count + 1, last_refresh_date = EXCLUDED.last_refresh_date
	`
	if _, err := r.pool.Exec(ctx, query, userID, weekStart, refreshedAt); err != nil {
		return fmt.Errorf("recording refresh for user %s: %w", userID, err)
	}
	return nil
}
