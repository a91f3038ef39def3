package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Zachkp/cutroom/internal/content"
	"github.com/Zachkp/cutroom/internal/preloader"
)

var preloaderJSON bool

var preloaderCmd = &cobra.Command{
	Use:   "preloader",
	Short: "Print the intro animation keyframes",
	Long: `Print every point at which the intro animation visibly changes:
progress, the rotating glyph and the step caption.`,
	RunE: runPreloader,
}

func init() {
	preloaderCmd.Flags().BoolVar(&preloaderJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(preloaderCmd)
}

func runPreloader(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sites, err := content.Open(cfg.ContentPath)
	if err != nil {
		return err
	}
	site := sites.Load()

	tl := preloader.DefaultTimeline()
	tl.Glyphs = len(site.Preloader.Glyphs)
	tl.Steps = len(site.Preloader.Steps)
	if err := tl.Validate(); err != nil {
		return err
	}
	frames := tl.Keyframes()

	out := cmd.OutOrStdout()
	if preloaderJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Timeline  preloader.Timeline `json:"timeline"`
			Keyframes []preloader.Frame  `json:"keyframes"`
		}{tl, frames})
	}

	fmt.Fprintf(out, "progress completes at %s, callback at %s\n\n", tl.CompletesAt(), tl.Duration())
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ELAPSED\tPROGRESS\tGLYPH\tSTEP\tCOMPLETE")
	for _, f := range frames {
		g := site.Preloader.Glyphs[f.Glyph]
		fmt.Fprintf(w, "%s\t%d%%\t%s %s\t%s\t%t\n",
			f.Elapsed, f.Percent, g.Kanji, g.Romaji, site.Preloader.Steps[f.Step], f.Complete)
	}
	return w.Flush()
}
