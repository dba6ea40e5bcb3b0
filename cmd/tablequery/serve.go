package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/catalogmesh/tablequery"
	"github.com/catalogmesh/tablequery/infrastructure/api"
	v1 "github.com/catalogmesh/tablequery/infrastructure/api/v1"
	"github.com/catalogmesh/tablequery/infrastructure/watch"
	"github.com/catalogmesh/tablequery/internal/config"
	"github.com/catalogmesh/tablequery/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                      Server host to bind to (default: 0.0.0.0)
  PORT                      Server port to listen on (default: 8080)
  LOG_LEVEL                 Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                Log format: pretty, json (default: pretty)

  METADATA_FILE_PATH        Catalog source file, JSON or YAML
  INDEX_DIR                 Directory for the persisted index database
  INDEX_KIND                Index structure: flat, ivf (default: flat)
  IVF_LISTS                 IVF cluster count
  IVF_PROBES                IVF lists scanned per search

  SEARCH_TOP_K              Default result count (default: 5)
  MIN_SIMILARITY            Similarity floor for results (default: 0)

  OPENMETADATA_BASE_URL     Governance platform base URL; when set, the
                            config file is neither read nor watched
  OPENMETADATA_CONFIG_FILE  KEY=VALUE file holding the base URL (default: .env)

  EMBEDDING_BACKEND         Encoder: hugot, openai (default: hugot)
  MODEL_DIR                 Local embedding model directory (default: models)
  OPENAI_API_KEY            API key for the openai backend
  EMBEDDING_MODEL           Remote embedding model (default: text-embedding-3-small)
  EMBEDDING_BASE_URL        OpenAI-compatible API base URL
  EMBEDDING_BATCH_SIZE      Bulk encoding batch size (default: 32)
  EMBEDDING_PARALLELISM     Bulk encoding parallelism (default: 1)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port)

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()
	logger.SetDefault()

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(context.Background(), slog.LevelInfo, "starting tablequery", attrs...)

	client, err := newClient(cfg, slogger)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close client", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build or load the index before accepting traffic. A failure keeps
	// the server up; searches return 503 until an update succeeds.
	if err := client.Updater.Bootstrap(ctx); err != nil {
		slogger.Error("catalog bootstrap failed, serving without an index", slog.Any("error", err))
	}

	// Watch the governance config file unless the URL is pinned by env
	if cfg.GovernanceBaseURL() == "" && cfg.GovernanceConfigFile() != "" {
		watcher, err := watch.NewGovernanceWatcher(client.GovernanceLinks(), cfg.GovernanceConfigFile(), slogger)
		if err != nil {
			slogger.Warn("governance config watcher disabled", slog.Any("error", err))
		} else {
			defer func() { _ = watcher.Close() }()
			go func() {
				if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
					slogger.Warn("governance config watcher stopped", slog.Any("error", err))
				}
			}()
		}
	}

	server := api.NewServer(cfg.Addr(), slogger)
	server.Router().Route("/api/v1", func(r chi.Router) {
		r.Mount("/search", v1.NewSearchRouter(client).Routes())
		r.Mount("/update", v1.NewUpdateRouter(client).Routes())
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slogger.Info("shutting down server")
		if err := server.Shutdown(context.Background()); err != nil {
			slogger.Error("shutdown error", slog.Any("error", err))
		}
		cancel()
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// newClient builds a library client from the loaded config.
func newClient(cfg config.AppConfig, slogger *slog.Logger) (*tablequery.Client, error) {
	opts := []tablequery.Option{}

	// When the base URL is not pinned by env, seed it from the config
	// file; the watcher keeps it fresh afterwards.
	if cfg.GovernanceBaseURL() == "" && cfg.GovernanceConfigFile() != "" {
		baseURL, err := config.ReadGovernanceBaseURL(cfg.GovernanceConfigFile())
		if err != nil {
			slogger.Warn("failed to read governance config", slog.Any("error", err))
		} else if baseURL != "" {
			opts = append(opts, tablequery.WithGovernanceBaseURL(baseURL))
		}
	}

	return tablequery.NewFromConfig(cfg, slogger, opts...)
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
