package cli

import (
	"fmt"

	"projectdb/database"
	"projectdb/reminders"
	"projectdb/workload"

	"github.com/spf13/cobra"
)

func newScanMissingCmd(app *App) *cobra.Command {
	var date string
	var days int

	cmd := &cobra.Command{
		Use:   "scan-missing",
		Short: "List planned workloads that were never reported",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = app.Codec.Yesterday()
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}

			db, err := app.OpenDB()
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			store := database.NewWorkloadRepository(db)

			scanner := reminders.NewMissingReportScanner(store, app.Codec, app.Config.MissingReportSchedule)
			scanner.OnMissing(func(workload.Unified) {})

			// Oldest day first, ending at --date.
			for offset := days - 1; offset >= 0; offset-- {
				key, err := app.Codec.AddDays(date, -offset)
				if err != nil {
					return err
				}
				if err := scanDay(cmd, store, scanner, key); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Last day to scan as YYYY-MM-DD (default yesterday)")
	cmd.Flags().IntVar(&days, "days", 1, "Number of days to scan, ending at --date")

	return cmd
}

func scanDay(cmd *cobra.Command, store *database.WorkloadRepository, scanner *reminders.MissingReportScanner, key string) error {
	missing, err := scanner.RunOnce(cmd.Context(), key)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(missing) == 0 {
		fmt.Fprintf(out, "No missing reports for %s\n", key)
		return nil
	}

	users, projects, err := store.Names(cmd.Context(), missing)
	if err != nil {
		return err
	}
	workload.SortUnified(missing, users, projects)

	fmt.Fprintf(out, "%d missing report(s) for %s\n", len(missing), key)
	for _, u := range missing {
		fmt.Fprintf(out, "  %s\t%s\n", nameOr(users, u.UserID, "user"), nameOr(projects, u.ProjectID, "project"))
	}
	return nil
}

func nameOr(names map[uint]string, id uint, kind string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("%s #%d", kind, id)
}
