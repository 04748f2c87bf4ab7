package cmd

import (
	"os"

	"github.com/junaidrashid-git/yoruwear-api/database"
	"github.com/spf13/cobra"
)

var (
	seedAdminEmail    string
	seedAdminPassword string
	seedCatalogFile   string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog and an admin account into an empty database",
	Long: `Seed creates the demo categories and products, plus an admin account when an
admin password is given. --catalog replaces the demo catalog with a YAML
document. Nothing happens when categories already exist.`,
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
		var catalog *database.SeedCatalog
		if seedCatalogFile != "" {
			if catalog, err = database.LoadCatalogFile(seedCatalogFile); err != nil {
				return err
			}
		}
		if seedAdminPassword == "" {
			log.Warn("no admin password given, skipping admin account")
		}
		return database.Seed(db, database.SeedOptions{
			AdminEmail:    seedAdminEmail,
			AdminPassword: seedAdminPassword,
			Catalog:       catalog,
		}, log)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", envOr("SEED_ADMIN_EMAIL", "admin@yoruwear.com"), "Email of the seeded admin account")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "Password of the seeded admin account")
	seedCmd.Flags().StringVar(&seedCatalogFile, "catalog", "", "YAML catalog to seed instead of the built-in demo data")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
