package cmd

import (
	"github.com/junaidrashid-git/yoruwear-api/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		db, err := database.Open(cfg.Database, log)
		if err != nil {
			return err
		}
		defer closeDB(db, log)

		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("migration complete")
		return nil
	},
}
