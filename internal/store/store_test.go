package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenFileDatabaseIsReusable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cutroom.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.CreateInquiry(ctx, Inquiry{ID: "a", Name: "n", Email: "e@x.io", ProjectType: "other", Message: "m", CreatedAt: time.Now()}))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	n, err := db.CountInquiries(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestInquiries(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, pt := range []string{"wedding", "commercial", "wedding"} {
		require.NoError(t, db.CreateInquiry(ctx, Inquiry{
			ID:          string(rune('a' + i)),
			Name:        "Aiko",
			Email:       "aiko@example.jp",
			ProjectType: pt,
			Message:     "編集をお願いします",
			HashedIP:    "abcd",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := db.GetInquiry(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "commercial", got.ProjectType)
	assert.Equal(t, "編集をお願いします", got.Message)
	assert.True(t, got.CreatedAt.Equal(base.Add(time.Minute)))

	list, err := db.ListInquiries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID, "newest first")

	list, err = db.ListInquiries(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	byType, err := db.InquiriesByType(ctx)
	require.NoError(t, err)
	assert.Equal(t, []TypeCount{{"wedding", 2}, {"commercial", 1}}, byType)

	require.NoError(t, db.DeleteInquiry(ctx, "a"))
	assert.ErrorIs(t, db.DeleteInquiry(ctx, "a"), ErrNotFound)
	_, err = db.GetInquiry(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVisits(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

	visits := []Visit{
		{HashedIP: "one", Path: "/", Timestamp: now.Add(-time.Hour)},
		{HashedIP: "one", Path: "/projects", Timestamp: now.Add(-20 * time.Hour)},
		{HashedIP: "two", Path: "/", Timestamp: now.Add(-3 * 24 * time.Hour)},
		{HashedIP: "three", Path: "/", Timestamp: now.AddDate(-1, -1, 0)},
	}
	for _, v := range visits {
		require.NoError(t, db.RecordVisit(ctx, v))
	}

	counts, err := db.CountVisits(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, VisitCounts{Total: 4, Unique: 3, Today: 1, ThisWeek: 3}, counts)

	recent, err := db.RecentVisits(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "/", recent[0].Path)
	assert.Equal(t, "/projects", recent[1].Path)

	removed, err := db.DeleteVisitsBefore(ctx, now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	counts, err = db.CountVisits(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts.Total)
}
