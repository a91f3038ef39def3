package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Zachkp/cutroom/internal/contact"
)

var (
	inquiriesLimit int
	inquiriesJSON  bool
)

var inquiriesCmd = &cobra.Command{
	Use:   "inquiries",
	Short: "Inspect stored contact inquiries",
}

var inquiriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inquiries, newest first",
	RunE:  runInquiriesList,
}

func init() {
	inquiriesListCmd.Flags().IntVarP(&inquiriesLimit, "limit", "n", 20, "Maximum number of inquiries (0 for all)")
	inquiriesListCmd.Flags().BoolVar(&inquiriesJSON, "json", false, "Output in JSON format")
	inquiriesCmd.AddCommand(inquiriesListCmd)
	rootCmd.AddCommand(inquiriesCmd)
}

func runInquiriesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	inquiries, err := db.ListInquiries(cmd.Context(), inquiriesLimit)
	if err != nil {
		return fmt.Errorf("listing inquiries: %w", err)
	}

	out := cmd.OutOrStdout()
	if inquiriesJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(inquiries)
	}

	if len(inquiries) == 0 {
		fmt.Fprintln(out, "No inquiries yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RECEIVED\tNAME\tEMAIL\tPROJECT\tMESSAGE")
	for _, in := range inquiries {
		project := in.ProjectType
		if pt, ok := contact.LookupProjectType(in.ProjectType); ok {
			project = pt.Label
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			in.CreatedAt.Local().Format("2006-01-02 15:04"),
			in.Name, in.Email, project, preview(in.Message, 40))
	}
	return w.Flush()
}

// preview returns the first line of s, cut to at most n runes.
func preview(s string, n int) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			s = s[:i]
			break
		}
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
