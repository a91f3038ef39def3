package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/cutroom/internal/contact"
	"github.com/Zachkp/cutroom/internal/content"
	"github.com/Zachkp/cutroom/internal/parallax"
)

func (s *Server) handleHome(c *gin.Context) {
	site := s.content.Load()
	tl := s.timelineFor(site)

	active := c.DefaultQuery("section", "home")
	if _, ok := site.NavItem(active); !ok {
		active = "home"
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"site":     site,
		"active":   active,
		"filter":   content.AllFilter,
		"projects": site.Projects,
		"form":     s.formData(contact.Submission{}, nil),
		"initial":  initialStyles(),
		"preloader": gin.H{
			"timeline":  tl,
			"keyframes": tl.Keyframes(),
			"glyphs":    site.Preloader.Glyphs,
			"steps":     site.Preloader.Steps,
		},
		"parallax": gin.H{
			"sections":       parallax.Sections(),
			"nav_threshold":  parallax.NavScrolledThreshold,
			"reset_delay_ms": s.contact.ResetDelay().Milliseconds(),
		},
	})
}

// handleGallery swaps the project grid for a filter button.
func (s *Server) handleGallery(c *gin.Context) {
	site := s.content.Load()
	filter := c.DefaultQuery("filter", content.AllFilter)

	projects, err := site.FilterProjects(filter)
	if errors.Is(err, content.ErrUnknownFilter) {
		c.HTML(fragmentStatus(c, http.StatusBadRequest), "error-fragment", gin.H{
			"error": "Unknown filter",
		})
		return
	}

	c.HTML(http.StatusOK, "gallery", gin.H{
		"site":     site,
		"filter":   filter,
		"projects": projects,
	})
}

func (s *Server) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form", gin.H{
		"form": s.formData(contact.Submission{}, nil),
	})
}

func (s *Server) handleContact(c *gin.Context) {
	var sub contact.Submission
	if err := c.ShouldBind(&sub); err != nil {
		c.HTML(fragmentStatus(c, http.StatusBadRequest), "contact-error", gin.H{
			"error": "Sorry, the form could not be read. Please try again.",
		})
		return
	}

	meta := contact.Meta{
		ClientKey: s.tracker.HashIP(c.ClientIP()),
		UserAgent: c.GetHeader("User-Agent"),
	}
	_, err := s.contact.Submit(c.Request.Context(), sub, meta)

	var invalid *contact.ValidationError
	switch {
	case err == nil:
		c.HTML(http.StatusOK, "contact-success", gin.H{
			"resetDelay": s.contact.ResetDelay().Milliseconds(),
		})
	case errors.As(err, &invalid):
		c.HTML(fragmentStatus(c, http.StatusUnprocessableEntity), "contact-form", gin.H{
			"form": s.formData(contact.Normalize(sub), invalid.Fields),
		})
	case errors.Is(err, contact.ErrAlreadySubmitted):
		c.HTML(fragmentStatus(c, http.StatusTooManyRequests), "contact-error", gin.H{
			"error": "Your message is already on its way. The form will be ready again in a moment.",
		})
	default:
		s.logger.Error("Contact submission failed", zap.Error(err))
		c.HTML(fragmentStatus(c, http.StatusInternalServerError), "contact-error", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
	}
}

func (s *Server) formData(sub contact.Submission, errs map[string]string) gin.H {
	return gin.H{
		"values":       sub,
		"errors":       errs,
		"projectTypes": contact.ProjectTypes,
		"maxMessage":   contact.MaxMessageLength,
	}
}

func (s *Server) handlePrivacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title": "Privacy Policy",
		"site":  s.content.Load(),
	})
}
