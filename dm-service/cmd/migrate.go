package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pkglog "github.com/choosenname/OneTeam/pkg/log"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer closeDatabase(db)

		if err := migrate(db); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}

		l := pkglog.L()
		l.Info().Str("driver", cfg.Database.Driver).Msg("database migration completed")
		return nil
	},
}
