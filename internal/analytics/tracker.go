// Package analytics records privacy-conscious page views and serves the
// numbers behind the admin dashboard.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/cutroom/internal/store"
)

// Visits is the storage the tracker needs.
type Visits interface {
	RecordVisit(ctx context.Context, v store.Visit) error
	DeleteVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// untrackedPrefixes are paths that never count as a visit.
var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/admin/",
	"/api/",
	"/favicon",
	"/privacy",
	"/healthz",
}

// Tracker records page views with hashed client IPs. The salt is random
// per process, so hashes are stable within a run and cannot be joined
// across restarts.
type Tracker struct {
	visits Visits
	salt   string
	logger *zap.Logger
	now    func() time.Time

	wg sync.WaitGroup
}

func NewTracker(visits Visits, logger *zap.Logger) (*Tracker, error) {
	salt, err := RandomToken()
	if err != nil {
		return nil, err
	}
	return &Tracker{visits: visits, salt: salt, logger: logger, now: time.Now}, nil
}

// RandomToken returns 32 random bytes, hex encoded.
func RandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashIP returns a truncated salted SHA-256 of ip.
func (t *Tracker) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + t.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Trackable reports whether a request should be recorded.
func Trackable(method, path, dnt string) bool {
	if method != "GET" || dnt == "1" {
		return false
	}
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// Middleware records trackable requests in the background so page
// rendering never waits on the database.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if Trackable(c.Request.Method, path, c.GetHeader("DNT")) {
			t.Record(c.ClientIP(), c.GetHeader("User-Agent"), path)
		}
		c.Next()
	}
}

// Record stores a visit asynchronously.
func (t *Tracker) Record(ip, userAgent, path string) {
	v := store.Visit{
		HashedIP:  t.HashIP(ip),
		UserAgent: userAgent,
		Path:      path,
		Timestamp: t.now(),
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := t.visits.RecordVisit(ctx, v); err != nil {
			t.logger.Warn("Error recording visitor", zap.Error(err))
		}
	}()
}

// Wait blocks until every pending Record has finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Cleanup deletes visits older than retention.
func (t *Tracker) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	removed, err := t.visits.DeleteVisitsBefore(ctx, t.now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		t.logger.Info("Privacy cleanup removed old visitor records",
			zap.Int64("removed", removed),
			zap.Duration("retention", retention),
		)
	}
	return removed, nil
}

// RunRetention runs Cleanup immediately and then every interval until ctx
// is done.
func (t *Tracker) RunRetention(ctx context.Context, retention, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := t.Cleanup(ctx, retention); err != nil && ctx.Err() == nil {
			t.logger.Warn("Error cleaning up old visitor data", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
