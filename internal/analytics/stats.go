package analytics

import (
	"context"
	"time"

	"github.com/Zachkp/cutroom/internal/store"
)

// Source is the read side used by the dashboard.
type Source interface {
	CountVisits(ctx context.Context, now time.Time) (store.VisitCounts, error)
	RecentVisits(ctx context.Context, limit int) ([]store.Visit, error)
	CountInquiries(ctx context.Context) (int64, error)
	InquiriesByType(ctx context.Context) ([]store.TypeCount, error)
	ListInquiries(ctx context.Context, limit int) ([]store.Inquiry, error)
}

type AdminStats struct {
	store.VisitCounts
	TotalInquiries  int64             `json:"total_inquiries"`
	InquiriesByType []store.TypeCount `json:"inquiries_by_type"`
	RecentInquiries []store.Inquiry   `json:"recent_inquiries"`
	RecentVisitors  []store.Visit     `json:"recent_visitors"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

const (
	recentVisitorLimit = 50
	recentInquiryLimit = 10
)

// Stats gathers the dashboard numbers as of now.
func Stats(ctx context.Context, src Source, now time.Time) (*AdminStats, error) {
	counts, err := src.CountVisits(ctx, now)
	if err != nil {
		return nil, err
	}
	stats := &AdminStats{VisitCounts: counts, GeneratedAt: now.UTC()}

	if stats.TotalInquiries, err = src.CountInquiries(ctx); err != nil {
		return nil, err
	}
	if stats.InquiriesByType, err = src.InquiriesByType(ctx); err != nil {
		return nil, err
	}
	if stats.RecentInquiries, err = src.ListInquiries(ctx, recentInquiryLimit); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = src.RecentVisits(ctx, recentVisitorLimit); err != nil {
		return nil, err
	}
	return stats, nil
}
