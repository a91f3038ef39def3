package analytics

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookie holds the admin session token.
const SessionCookie = "admin_token"

// Auth guards the admin pages with a single account and a per-process
// session token.
type Auth struct {
	username string
	password string
	token    string
	logger   *zap.Logger
}

// NewAuth builds the guard. In debug mode missing credentials fall back
// to admin/admin123 with a warning; outside debug mode they disable login.
func NewAuth(username, password, mode string, logger *zap.Logger) (*Auth, error) {
	token, err := RandomToken()
	if err != nil {
		return nil, err
	}
	if mode == gin.DebugMode {
		if username == "" {
			username = "admin"
			logger.Warn("Using default admin username. Set ADMIN_USERNAME.")
		}
		if password == "" {
			password = "admin123"
			logger.Warn("Using default admin password. Set ADMIN_PASSWORD.")
		}
		logger.Debug("Admin session token (dev only)", zap.String("token", token))
	} else if username == "" || password == "" {
		logger.Warn("Admin login disabled: ADMIN_USERNAME and ADMIN_PASSWORD are not set")
	}
	return &Auth{username: username, password: password, token: token, logger: logger}, nil
}

// Enabled reports whether any login can succeed.
func (a *Auth) Enabled() bool {
	return a.username != "" && a.password != ""
}

// Check compares credentials in constant time.
func (a *Auth) Check(username, password string) bool {
	if !a.Enabled() {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

// Token is the value stored in the session cookie after login.
func (a *Auth) Token() string {
	return a.token
}

// Valid reports whether a cookie value is the current session token.
func (a *Auth) Valid(token string) bool {
	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) == 1
}

// Middleware redirects to the login page unless the request carries the
// session cookie.
func (a *Auth) Middleware(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || !a.Valid(token) {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
