package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catalogmesh/tablequery/internal/log"
)

func updateCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "update [catalog-file]",
		Short: "Rebuild the persisted index from the catalog file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runUpdate(envFile, path)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runUpdate(envFile, path string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

	client, err := newClient(cfg, slogger)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() { _ = client.Close() }()

	result, err := client.Updater.Update(context.Background(), path)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s\n", result.Status(), result.Detail())
	return nil
}
