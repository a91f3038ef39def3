package store

import (
	"context"
	"fmt"
	"time"
)

// Visit is one tracked page view. The client IP is never stored, only a
// salted hash of it.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// VisitCounts summarises traffic relative to a reference time.
type VisitCounts struct {
	Total    int64 `json:"total_visitors"`
	Unique   int64 `json:"unique_visitors"`
	Today    int64 `json:"visitors_today"`
	ThisWeek int64 `json:"visitors_this_week"`
}

func (db *DB) RecordVisit(ctx context.Context, v Visit) error {
	_, err := db.sql.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, toMillis(v.Timestamp))
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

func (db *DB) RecentVisits(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := db.sql.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visits: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, err
		}
		v.Timestamp = fromMillis(ts)
		out = append(out, v)
	}
	return out, rows.Err()
}

// CountVisits counts visits as seen at now. "Today" starts at UTC midnight.
func (db *DB) CountVisits(ctx context.Context, now time.Time) (VisitCounts, error) {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	var c VisitCounts
	err := db.sql.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT hashed_ip),
			COALESCE(SUM(CASE WHEN timestamp >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN timestamp >= ? THEN 1 ELSE 0 END), 0)
		FROM visitors
	`, toMillis(midnight), toMillis(weekAgo)).Scan(&c.Total, &c.Unique, &c.Today, &c.ThisWeek)
	if err != nil {
		return VisitCounts{}, fmt.Errorf("count visits: %w", err)
	}
	return c, nil
}

// DeleteVisitsBefore removes visits older than cutoff and reports how many
// were removed.
func (db *DB) DeleteVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, toMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete old visits: %w", err)
	}
	return res.RowsAffected()
}
