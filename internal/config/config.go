// Package config assembles server settings from defaults, an optional
// cutroom.toml and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cutroom/internal/mailer"
)

type Config struct {
	Port         string
	Mode         string
	LogLevel     string
	DatabasePath string
	ContentPath  string
	WatchContent bool

	SMTP  mailer.Config
	Admin Admin

	// VisitRetention is how long visit records are kept.
	VisitRetention time.Duration
	// CleanupInterval is how often expired visits are purged.
	CleanupInterval time.Duration
	ShutdownTimeout time.Duration
}

type Admin struct {
	Username string
	Password string
}

// fileConfig is the cutroom.toml layout.
type fileConfig struct {
	Port            string        `toml:"port"`
	Mode            string        `toml:"mode"`
	LogLevel        string        `toml:"log_level"`
	DatabasePath    string        `toml:"database_path"`
	ContentPath     string        `toml:"content_path"`
	WatchContent    bool          `toml:"watch_content"`
	VisitRetention  duration      `toml:"visit_retention"`
	CleanupInterval duration      `toml:"cleanup_interval"`
	ShutdownTimeout duration      `toml:"shutdown_timeout"`
	SMTP            mailer.Config `toml:"smtp"`
	Admin           struct {
		Username string `toml:"username"`
		Password string `toml:"password"`
	} `toml:"admin"`
}

// duration decodes TOML strings such as "720h" or "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func Default() Config {
	return Config{
		Port:         "8080",
		Mode:         gin.ReleaseMode,
		LogLevel:     "info",
		DatabasePath: "cutroom.db",
		SMTP: mailer.Config{
			Host: "smtp.gmail.com",
			Port: "587",
		},
		VisitRetention:  365 * 24 * time.Hour,
		CleanupInterval: 24 * time.Hour,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds the configuration. A missing file at path is not an error;
// an empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	setString := func(key string, dst *string, v string) {
		if meta.IsDefined(strings.Split(key, ".")...) {
			*dst = strings.TrimSpace(v)
		}
	}
	setString("port", &c.Port, raw.Port)
	setString("mode", &c.Mode, raw.Mode)
	setString("log_level", &c.LogLevel, raw.LogLevel)
	setString("database_path", &c.DatabasePath, raw.DatabasePath)
	setString("content_path", &c.ContentPath, raw.ContentPath)
	setString("smtp.host", &c.SMTP.Host, raw.SMTP.Host)
	setString("smtp.port", &c.SMTP.Port, raw.SMTP.Port)
	setString("smtp.user", &c.SMTP.User, raw.SMTP.User)
	setString("smtp.pass", &c.SMTP.Pass, raw.SMTP.Pass)
	setString("smtp.to", &c.SMTP.To, raw.SMTP.To)
	setString("admin.username", &c.Admin.Username, raw.Admin.Username)
	setString("admin.password", &c.Admin.Password, raw.Admin.Password)

	if meta.IsDefined("watch_content") {
		c.WatchContent = raw.WatchContent
	}
	if meta.IsDefined("visit_retention") {
		c.VisitRetention = raw.VisitRetention.Duration
	}
	if meta.IsDefined("cleanup_interval") {
		c.CleanupInterval = raw.CleanupInterval.Duration
	}
	if meta.IsDefined("shutdown_timeout") {
		c.ShutdownTimeout = raw.ShutdownTimeout.Duration
	}
	return nil
}

// applyEnv lets deployment environments override the file. The variable
// names match what the service has always read.
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(name string, dst *string) {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			*dst = v
		}
	}
	set("PORT", &c.Port)
	set("GIN_MODE", &c.Mode)
	set("LOG_LEVEL", &c.LogLevel)
	set("DATABASE_PATH", &c.DatabasePath)
	set("CONTENT_PATH", &c.ContentPath)
	set("SMTP_HOST", &c.SMTP.Host)
	set("SMTP_PORT", &c.SMTP.Port)
	set("SMTP_USER", &c.SMTP.User)
	set("SMTP_PASS", &c.SMTP.Pass)
	set("TO_EMAIL", &c.SMTP.To)
	set("ADMIN_USERNAME", &c.Admin.Username)
	set("ADMIN_PASSWORD", &c.Admin.Password)

	if v := strings.TrimSpace(getenv("WATCH_CONTENT")); v != "" {
		c.WatchContent = v == "1" || strings.EqualFold(v, "true")
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	switch c.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		errs = append(errs, fmt.Errorf("mode %q must be debug, release or test", c.Mode))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if c.WatchContent && c.ContentPath == "" {
		errs = append(errs, errors.New("watch_content needs content_path"))
	}
	if c.VisitRetention <= 0 {
		errs = append(errs, errors.New("visit retention must be positive"))
	}
	if c.CleanupInterval <= 0 {
		errs = append(errs, errors.New("cleanup interval must be positive"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
