package cli

import (
	"projectdb/config"
	"projectdb/workload"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// App holds what the commands share: configuration, the date codec bound to
// the configured time zone, and a way to reach the database.
type App struct {
	Config *config.Config
	Codec  *workload.DateCodec
	OpenDB func() (*gorm.DB, error)
}

// NewRootCmd creates the top-level "projectdb" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "projectdb",
		Short:         "Workload planning and reporting server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(app),
		newScanMissingCmd(app),
		newCalendarCmd(app),
	)

	return root
}
