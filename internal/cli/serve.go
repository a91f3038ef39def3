package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/cutroom/internal/analytics"
	"github.com/Zachkp/cutroom/internal/contact"
	"github.com/Zachkp/cutroom/internal/content"
	"github.com/Zachkp/cutroom/internal/mailer"
	"github.com/Zachkp/cutroom/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Run the portfolio web server until interrupted. Expired visitor
records are purged in the background, and the content file is reloaded on
change when watch_content is enabled.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sites, err := content.Open(cfg.ContentPath)
	if err != nil {
		return err
	}

	tracker, err := analytics.NewTracker(db, logger)
	if err != nil {
		return err
	}
	defer tracker.Wait()

	auth, err := analytics.NewAuth(cfg.Admin.Username, cfg.Admin.Password, cfg.Mode, logger)
	if err != nil {
		return err
	}

	var notifier contact.Notifier
	if cfg.SMTP.Configured() {
		notifier = mailer.NewSMTP(cfg.SMTP, logger)
	} else {
		logger.Warn("SMTP not configured, inquiries will only be stored")
	}
	inquiries := contact.NewService(db, notifier, logger)
	defer inquiries.Close()

	srv, err := web.New(web.Deps{
		Content:        sites,
		Store:          db,
		Contact:        inquiries,
		Tracker:        tracker,
		Auth:           auth,
		Logger:         logger,
		Mode:           cfg.Mode,
		VisitRetention: cfg.VisitRetention,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", zap.String("addr", httpServer.Addr), zap.String("mode", cfg.Mode))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return tracker.RunRetention(gctx, cfg.VisitRetention, cfg.CleanupInterval)
	})
	if cfg.WatchContent && cfg.ContentPath != "" {
		g.Go(func() error {
			return content.Watch(gctx, cfg.ContentPath, sites, logger)
		})
	}
	return g.Wait()
}
