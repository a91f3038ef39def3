package web

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/cutroom/internal/parallax"
	"github.com/Zachkp/cutroom/internal/preloader"
)

// handlePreloader returns the pacing and the precomputed keyframes the
// browser plays back.
func (s *Server) handlePreloader(c *gin.Context) {
	site := s.content.Load()
	tl := s.timelineFor(site)
	c.JSON(http.StatusOK, gin.H{
		"timeline":  tl,
		"keyframes": tl.Keyframes(),
		"glyphs":    site.Preloader.Glyphs,
		"steps":     site.Preloader.Steps,
	})
}

// handlePreloaderStream plays the preloader in real time as server-sent
// events: a "frame" event per counter change and one "complete" event.
func (s *Server) handlePreloaderStream(c *gin.Context) {
	tl := s.timelineFor(s.content.Load())

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	err := preloader.Run(c.Request.Context(), tl,
		func(f preloader.Frame) {
			c.SSEvent("frame", f)
			c.Writer.Flush()
		},
		func() {
			c.SSEvent("complete", gin.H{"duration_ms": tl.Duration().Milliseconds()})
			c.Writer.Flush()
		},
	)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("Preloader stream ended", zap.Error(err))
	}
}

// handleParallax lists the section table, or evaluates one section when
// a section id is given. Progress comes from the progress parameter or,
// failing that, from the page geometry (scroll_y, viewport, top, height).
func (s *Server) handleParallax(c *gin.Context) {
	id := c.Query("section")
	if id == "" {
		c.JSON(http.StatusOK, gin.H{
			"sections":      parallax.Sections(),
			"nav_threshold": parallax.NavScrolledThreshold,
		})
		return
	}

	sec, err := parallax.Lookup(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown section " + strconv.Quote(id)})
		return
	}

	progress, err := progressParam(c, sec.Offset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	style := sec.Apply(progress)
	resp := gin.H{
		"section":  sec.ID,
		"progress": progress,
		"style":    style,
		"css":      style.CSS(),
	}
	if raw, ok := c.GetQuery("scroll_y"); ok {
		if y, err := parseFinite(raw); err == nil {
			resp["nav_scrolled"] = parallax.NavScrolled(y)
		}
	}
	c.JSON(http.StatusOK, resp)
}

func progressParam(c *gin.Context, offset parallax.Offset) (float64, error) {
	if raw, ok := c.GetQuery("progress"); ok {
		p, err := parseFinite(raw)
		if err != nil {
			return 0, errors.New("progress must be a number")
		}
		if p < 0 || p > 1 {
			return 0, errors.New("progress must be between 0 and 1")
		}
		return p, nil
	}

	var g parallax.Geometry
	fields := []struct {
		name string
		dst  *float64
	}{
		{"scroll_y", &g.ScrollY},
		{"viewport", &g.ViewportHeight},
		{"top", &g.ElementTop},
		{"height", &g.ElementHeight},
	}
	for _, f := range fields {
		raw, ok := c.GetQuery(f.name)
		if !ok {
			return 0, errors.New("progress or scroll_y, viewport, top and height are required")
		}
		v, err := parseFinite(raw)
		if err != nil {
			return 0, errors.New(f.name + " must be a number")
		}
		*f.dst = v
	}
	return parallax.Progress(offset, g), nil
}

// parseFinite parses a query number. NaN and the infinities are rejected
// since they cannot be encoded as JSON.
func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
