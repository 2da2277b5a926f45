package main

import (
	"fmt"
	"os"

	"projectdb/cli"
	"projectdb/config"
	"projectdb/database"
	"projectdb/workload"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	app := &cli.App{
		Config: cfg,
		Codec:  workload.NewDateCodec(cfg.Location(), workload.SystemClock()),
		OpenDB: func() (*gorm.DB, error) {
			if err := database.Init(cfg.DatabaseDriver, cfg.DatabaseURL); err != nil {
				return nil, err
			}
			return database.GetDB(), nil
		},
	}

	return cli.NewRootCmd(app).Execute()
}
