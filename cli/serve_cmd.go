package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"projectdb/database"
	"projectdb/handlers"
	"projectdb/middleware"
	"projectdb/reminders"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.OpenDB()
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}

			store := database.NewWorkloadRepository(db)
			auth := middleware.NewAuth(app.Config.JWTSecret, app.Config.JWTExpiration, db)
			router := handlers.NewRouter(db, store, auth, app.Codec)

			if app.Config.MissingReportEnabled {
				scanner := reminders.NewMissingReportScanner(store, app.Codec, app.Config.MissingReportSchedule)
				if err := scanner.Start(); err != nil {
					return err
				}
				defer scanner.Stop()
			}

			if port == "" {
				port = app.Config.ServerPort
			}
			server := &http.Server{
				Addr:              ":" + port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("Server starting on port %s (time zone %s)", port, app.Codec.Location())
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Println("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (overrides SERVER_PORT)")

	return cmd
}
