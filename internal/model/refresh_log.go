package model

import "time"

// RefreshLog tracks how many bulk price refreshes a user has performed in a
// given week. WeekStart is the Sunday that opens the week, normalized to
// midnight UTC; (UserID, WeekStart) is unique in storage.
type RefreshLog struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	WeekStart       time.Time `db:"week_start" json:"week_start"`
	RefreshCount    int       `db:"refresh_count" json:"refresh_count"`
	LastRefreshDate time.Time `db:"last_refresh_date" json:"last_refresh_date"`
}
