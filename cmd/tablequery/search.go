package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/catalogmesh/tablequery/internal/log"
)

func searchCmd() *cobra.Command {
	var (
		envFile string
		topK    int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(envFile, strings.Join(args, " "), topK)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().IntVar(&topK, "top-k", 0, "Number of results (default: SEARCH_TOP_K)")

	return cmd
}

func runSearch(envFile, query string, topK int) error {
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

	ctx := context.Background()
	if err := client.Updater.Bootstrap(ctx); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	result, err := client.Search.Search(ctx, query, topK)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tTABLE\tDESCRIPTION")
	for _, hit := range result.Results() {
		fmt.Fprintf(w, "%.4f\t%s\t%s\n", hit.Score(), hit.Entry().Name(), hit.Entry().Description())
	}
	return w.Flush()
}
