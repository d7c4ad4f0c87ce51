package cli

import (
	"fmt"
	"text/tabwriter"

	"joke_notification_bot/internal/domain/history"
	"joke_notification_bot/internal/infra/config"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent deliveries from the journal (requires DATABASE_URL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, err := config.LoadDatabaseURL(configPath)
			if err != nil {
				return err
			}
			if dbURL == "" {
				return history.ErrNotConfigured
			}
			repo, closeDB, err := openJournal(cmd.Context(), dbURL)
			if err != nil {
				return err
			}
			defer closeDB()

			records, err := repo.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No deliveries recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SENT AT\tKIND\tCHANNEL\tDESTINATION\tTEXT")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.SentAt.Local().Format("2006-01-02 15:04:05"), r.Kind, r.Channel, r.Destination, truncate(r.Text, 60))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of deliveries to show")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
