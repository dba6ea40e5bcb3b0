// Package main is the entry point for the tablequery CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/catalogmesh/tablequery/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tablequery",
		Short: "Semantic search over a data catalog",
		Long:  `Tablequery indexes table and column descriptions from a data catalog and answers free-text queries with ranked tables and governance platform links.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(searchCmd())
	cmd.AddCommand(updateCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
