package cli

import (
	"fmt"
	"strings"

	"projectdb/workload"

	"github.com/spf13/cobra"
)

func newCalendarCmd(app *App) *cobra.Command {
	var date, mode, selected string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the week or month grid around a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			viewMode, err := workload.ParseViewMode(mode)
			if err != nil {
				return err
			}

			if date == "" {
				date = app.Codec.Today()
			}
			ref, err := app.Codec.Parse(date)
			if err != nil {
				return err
			}

			days := workload.NewGridGenerator(app.Codec).Generate(ref, viewMode, selected)
			out := cmd.OutOrStdout()
			for _, d := range days {
				fmt.Fprintf(out, "%s %s %s\n", d.Key, d.Date.Weekday().String()[:3], dayFlags(d))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Reference date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&mode, "mode", string(workload.ViewWeek), "Grid mode: week or month")
	cmd.Flags().StringVar(&selected, "selected", "", "Date to mark as selected")

	return cmd
}

func dayFlags(d workload.CalendarDay) string {
	var flags []string
	if !d.IsCurrentMonth {
		flags = append(flags, "outside")
	}
	if d.IsToday {
		flags = append(flags, "today")
	}
	if d.IsSelected {
		flags = append(flags, "selected")
	}
	if d.IsPast {
		flags = append(flags, "past")
	}
	if d.IsWeekend {
		flags = append(flags, "weekend")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}
