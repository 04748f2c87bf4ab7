// Package cmd holds the yoruwear command line: the API server plus database
// maintenance commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/junaidrashid-git/yoruwear-api/config"
	"github.com/junaidrashid-git/yoruwear-api/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   "yoruwear",
	Short: "YoruWear storefront API",
	Long: `YoruWear storefront API server.

Configuration is read from the environment, optionally seeded from .env files.
Run "yoruwear serve" to start the HTTP server.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Env files to load before reading the environment (default .env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// bootstrap loads configuration and builds the logger shared by every command.
func bootstrap() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.LogLevel, cfg.LogFormat, cfg.IsProduction()), nil
}
