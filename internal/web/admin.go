package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/cutroom/internal/analytics"
	"github.com/Zachkp/cutroom/internal/store"
)

const (
	adminLoginPath   = "/admin/login"
	sessionMaxAge    = 3600 * 24
	visitorPageLimit = 200
	inquiryPageLimit = 0
	exportFilename   = "admin-stats.json"
)

func (s *Server) adminRoutes() {
	r := s.engine

	r.GET("/privacy", s.handlePrivacy)

	r.GET(adminLoginPath, func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title":   "Admin Login",
			"enabled": s.auth.Enabled(),
		})
	})

	r.POST(adminLoginPath, func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if s.auth.Check(username, password) {
			c.SetCookie(analytics.SessionCookie, s.auth.Token(), sessionMaxAge, "/admin", "", s.secureCookies(), true)
			s.logger.Info("Admin login", zap.String("client", s.tracker.HashIP(c.ClientIP())))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		s.logger.Warn("Failed admin login", zap.String("client", s.tracker.HashIP(c.ClientIP())))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title":   "Admin Login",
			"enabled": s.auth.Enabled(),
			"error":   "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(analytics.SessionCookie, "", -1, "/admin", "", s.secureCookies(), true)
		c.Redirect(http.StatusFound, adminLoginPath)
	})

	admin := r.Group("/admin")
	admin.Use(s.auth.Middleware(adminLoginPath))

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := analytics.Stats(c.Request.Context(), s.store, time.Now())
		if err != nil {
			s.logger.Error("Loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
			"site":  s.content.Load(),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := analytics.Stats(c.Request.Context(), s.store, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/inquiries", func(c *gin.Context) {
		inquiries, err := s.store.ListInquiries(c.Request.Context(), inquiryPageLimit)
		if err != nil {
			s.logger.Error("Loading inquiries", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load inquiries",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-inquiries.html", gin.H{
			"inquiries": inquiries,
		})
	})

	admin.GET("/inquiries/:id", func(c *gin.Context) {
		in, err := s.store.GetInquiry(c.Request.Context(), c.Param("id"))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inquiry not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, in)
	})

	admin.DELETE("/inquiries/:id", func(c *gin.Context) {
		id := c.Param("id")
		err := s.store.DeleteInquiry(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inquiry not found"})
			return
		}
		if err != nil {
			s.logger.Error("Deleting inquiry", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete inquiry"})
			return
		}
		s.logger.Info("Inquiry deleted", zap.String("id", id))
		c.JSON(http.StatusOK, gin.H{"message": "Inquiry deleted"})
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.RecentVisits(c.Request.Context(), visitorPageLimit)
		if err != nil {
			s.logger.Error("Loading visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		removed, err := s.tracker.Cleanup(c.Request.Context(), s.retention)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := analytics.Stats(c.Request.Context(), s.store, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+exportFilename)
		s.logger.Info("Admin stats exported")
		c.JSON(http.StatusOK, stats)
	})
}

func (s *Server) secureCookies() bool {
	return s.mode == gin.ReleaseMode
}
