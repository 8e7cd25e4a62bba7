package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Visit is one tracked page view. The client IP is only ever stored hashed.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	VisitedAt time.Time `json:"visited_at"`
}

// VisitorStats summarises recorded visits.
type VisitorStats struct {
	TotalVisitors    int64   `json:"total_visitors"`
	UniqueVisitors   int64   `json:"unique_visitors"`
	VisitorsToday    int64   `json:"visitors_today"`
	VisitorsThisWeek int64   `json:"visitors_this_week"`
	RecentVisitors   []Visit `json:"recent_visitors"`
}

// VisitorRepo records and summarises page views.
type VisitorRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewVisitorRepo(db *sql.DB) *VisitorRepo {
	return &VisitorRepo{db: db, now: time.Now}
}

func (r *VisitorRepo) Record(ctx context.Context, hashedIP, userAgent, path string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, visited_at) VALUES (?, ?, ?, ?)`,
		hashedIP, userAgent, path, formatTime(r.now()))
	if err != nil {
		return fmt.Errorf("recording visitor: %w", err)
	}
	return nil
}

// Stats counts visits overall, today (UTC) and over the last seven days,
// and returns up to recent of the latest visits.
func (r *VisitorRepo) Stats(ctx context.Context, recent int) (VisitorStats, error) {
	now := r.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.AddDate(0, 0, -7)

	var stats VisitorStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(DISTINCT hashed_ip),
			COALESCE(SUM(CASE WHEN visited_at >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN visited_at >= ? THEN 1 ELSE 0 END), 0)
		FROM visitors`, formatTime(startOfDay), formatTime(weekAgo)).Scan(
		&stats.TotalVisitors, &stats.UniqueVisitors, &stats.VisitorsToday, &stats.VisitorsThisWeek,
	)
	if err != nil {
		return VisitorStats{}, fmt.Errorf("counting visitors: %w", err)
	}

	stats.RecentVisitors, err = r.Recent(ctx, recent)
	if err != nil {
		return VisitorStats{}, err
	}
	return stats, nil
}

// Recent returns the latest visits, newest first.
func (r *VisitorRepo) Recent(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, visited_at
		FROM visitors ORDER BY visited_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing visitors: %w", err)
	}
	defer rows.Close()

	visits := []Visit{}
	for rows.Next() {
		var (
			v         Visit
			visitedAt string
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &visitedAt); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		v.VisitedAt = parseTime(visitedAt)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// PurgeOlderThan deletes visits recorded before now minus age and returns
// how many were removed.
func (r *VisitorRepo) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := r.now().Add(-age)
	res, err := r.db.ExecContext(ctx, `DELETE FROM visitors WHERE visited_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("purging visitors: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purged rows: %w", err)
	}
	return n, nil
}
