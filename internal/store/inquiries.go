package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Inquiry is an accepted contact form submission.
type Inquiry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ProjectType string    `json:"project_type"`
	Message     string    `json:"message"`
	HashedIP    string    `json:"hashed_ip,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TypeCount is the number of inquiries for one project type.
type TypeCount struct {
	ProjectType string `json:"project_type"`
	Count       int64  `json:"count"`
}

func (db *DB) CreateInquiry(ctx context.Context, in Inquiry) error {
	_, err := db.sql.ExecContext(ctx, `
		INSERT INTO inquiries (id, name, email, project_type, message, hashed_ip, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, in.ID, in.Name, in.Email, in.ProjectType, in.Message, in.HashedIP, in.UserAgent, toMillis(in.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert inquiry %s: %w", in.ID, err)
	}
	return nil
}

func (db *DB) GetInquiry(ctx context.Context, id string) (Inquiry, error) {
	row := db.sql.QueryRowContext(ctx, `
		SELECT id, name, email, project_type, message, COALESCE(hashed_ip, ''), COALESCE(user_agent, ''), created_at
		FROM inquiries WHERE id = ?
	`, id)
	in, err := scanInquiry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Inquiry{}, ErrNotFound
	}
	return in, err
}

// ListInquiries returns the newest inquiries first. A limit <= 0 returns
// all of them.
func (db *DB) ListInquiries(ctx context.Context, limit int) ([]Inquiry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.sql.QueryContext(ctx, `
		SELECT id, name, email, project_type, message, COALESCE(hashed_ip, ''), COALESCE(user_agent, ''), created_at
		FROM inquiries
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	var out []Inquiry
	for rows.Next() {
		in, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (db *DB) DeleteInquiry(ctx context.Context, id string) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM inquiries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete inquiry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete inquiry %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) CountInquiries(ctx context.Context) (int64, error) {
	var n int64
	if err := db.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM inquiries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count inquiries: %w", err)
	}
	return n, nil
}

// InquiriesByType returns per-type counts, busiest first.
func (db *DB) InquiriesByType(ctx context.Context) ([]TypeCount, error) {
	rows, err := db.sql.QueryContext(ctx, `
		SELECT project_type, COUNT(*) AS n
		FROM inquiries
		GROUP BY project_type
		ORDER BY n DESC, project_type
	`)
	if err != nil {
		return nil, fmt.Errorf("count inquiries by type: %w", err)
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.ProjectType, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInquiry(s scanner) (Inquiry, error) {
	var in Inquiry
	var created int64
	if err := s.Scan(&in.ID, &in.Name, &in.Email, &in.ProjectType, &in.Message, &in.HashedIP, &in.UserAgent, &created); err != nil {
		return Inquiry{}, err
	}
	in.CreatedAt = fromMillis(created)
	return in, nil
}
