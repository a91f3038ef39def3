// Package web serves the portfolio: the full page, its HTMX fragments,
// the animation data the browser script plays back, and the admin
// console.
package web

import (
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/cutroom/internal/analytics"
	"github.com/Zachkp/cutroom/internal/contact"
	"github.com/Zachkp/cutroom/internal/content"
	"github.com/Zachkp/cutroom/internal/logging"
	"github.com/Zachkp/cutroom/internal/preloader"
	"github.com/Zachkp/cutroom/internal/store"
)

const defaultRetention = 365 * 24 * time.Hour

// Deps are the collaborators the server is built from.
type Deps struct {
	Content *content.Store
	Store   *store.DB
	Contact *contact.Service
	Tracker *analytics.Tracker
	Auth    *analytics.Auth
	Logger  *zap.Logger
	// Mode is the Gin mode; release mode marks cookies Secure.
	Mode string
	// Timeline paces the preloader. The zero value uses the default.
	Timeline preloader.Timeline
	// VisitRetention is how long visits are kept by the admin cleanup.
	VisitRetention time.Duration
}

type Server struct {
	engine    *gin.Engine
	content   *content.Store
	store     *store.DB
	contact   *contact.Service
	tracker   *analytics.Tracker
	auth      *analytics.Auth
	logger    *zap.Logger
	mode      string
	timeline  preloader.Timeline
	retention time.Duration
}

func New(d Deps) (*Server, error) {
	if d.Content == nil || d.Store == nil || d.Contact == nil || d.Tracker == nil || d.Auth == nil {
		return nil, errors.New("web: missing dependency")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Timeline == (preloader.Timeline{}) {
		d.Timeline = preloader.DefaultTimeline()
	}
	if d.VisitRetention <= 0 {
		d.VisitRetention = defaultRetention
	}

	s := &Server{
		content:   d.Content,
		store:     d.Store,
		contact:   d.Contact,
		tracker:   d.Tracker,
		auth:      d.Auth,
		logger:    d.Logger,
		mode:      d.Mode,
		timeline:  d.Timeline,
		retention: d.VisitRetention,
	}
	if err := s.timelineFor(d.Content.Load()).Validate(); err != nil {
		return nil, err
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(logging.Middleware(s.logger), logging.Recovery(s.logger), s.tracker.Middleware())
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(static))

	s.engine = r
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/", s.handleHome)
	r.GET("/projects", s.handleGallery)
	r.GET("/contact-form", s.handleContactForm)
	r.POST("/contact", s.handleContact)

	api := r.Group("/api")
	api.GET("/preloader", s.handlePreloader)
	api.GET("/preloader/stream", s.handlePreloaderStream)
	api.GET("/parallax", s.handleParallax)

	r.GET("/healthz", s.handleHealth)

	s.adminRoutes()
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// timelineFor sizes the preloader counters to the loaded copy.
func (s *Server) timelineFor(site *content.Site) preloader.Timeline {
	tl := s.timeline
	tl.Glyphs = len(site.Preloader.Glyphs)
	tl.Steps = len(site.Preloader.Steps)
	return tl
}

// isHTMX reports whether the request came from an HTMX swap. HTMX ignores
// non-2xx responses, so fragment errors are sent with 200 for it.
func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func fragmentStatus(c *gin.Context, status int) int {
	if isHTMX(c) {
		return http.StatusOK
	}
	return status
}
