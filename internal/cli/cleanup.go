package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zachkp/cutroom/internal/analytics"
)

var cleanupRetention time.Duration

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete visitor records past the retention period",
	RunE:  runCleanup,
}

func init() {
	cleanupCmd.Flags().DurationVar(&cleanupRetention, "retention", 0, "Override the configured retention (e.g. 720h)")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	tracker, err := analytics.NewTracker(db, logger)
	if err != nil {
		return err
	}

	retention := cfg.VisitRetention
	if cleanupRetention > 0 {
		retention = cleanupRetention
	}
	removed, err := tracker.Cleanup(cmd.Context(), retention)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d visitor records older than %s\n", removed, retention)
	return nil
}
