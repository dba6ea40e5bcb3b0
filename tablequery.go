// Package tablequery provides a library for semantic search over a data
// catalog.
//
// It encodes table and column descriptions into embedding vectors, keeps
// them in an in-memory similarity index, and answers free-text queries
// with ranked tables enriched with their column schemas and governance
// platform links.
//
// Basic usage:
//
//	client, err := tablequery.New(
//	    tablequery.WithCatalogPath("metadata/enriched_metadata_clustered.json"),
//	    tablequery.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Build the index from the catalog file
//	if err := client.Updater.Bootstrap(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Search
//	result, err := client.Search.Search(ctx, "customer order history", 5)
//	for _, hit := range result.Results() {
//	    fmt.Println(hit.Entry().Name(), hit.Score())
//	}
package tablequery

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/catalogmesh/tablequery/application/service"
	domainservice "github.com/catalogmesh/tablequery/domain/service"
	"github.com/catalogmesh/tablequery/infrastructure/encoder"
	"github.com/catalogmesh/tablequery/infrastructure/index"
	"github.com/catalogmesh/tablequery/internal/config"
)

// ErrNoCatalog is returned by New when no catalog file path is configured.
var ErrNoCatalog = errors.New("no catalog path configured")

// Client is the main entry point for the tablequery library.
//
// Access operations via struct fields:
//
//	client.Search.Search(ctx, "monthly revenue", 5)
//	client.Updater.Update(ctx, "")
type Client struct {
	// Public service fields (direct access)
	Search  *service.Search
	Updater *service.Updater

	active *service.Active
	links  *service.GovernanceLinks
	store  *index.Store

	closers []io.Closer
	logger  *slog.Logger
	closed  atomic.Bool
	mu      sync.Mutex
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.catalogPath == "" {
		return nil, ErrNoCatalog
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	closers := append([]io.Closer(nil), cfg.closers...)

	// Create built-in embedding backend if no external encoder is configured
	enc := cfg.encoder
	if enc == nil {
		if cfg.openAIKey != "" {
			openaiOpts := []encoder.OpenAIOption{}
			if cfg.embeddingModel != "" {
				openaiOpts = append(openaiOpts, encoder.WithModel(cfg.embeddingModel))
			}
			if cfg.embeddingBaseURL != "" {
				enc = encoder.NewOpenAIWithBaseURL(cfg.openAIKey, cfg.embeddingBaseURL, openaiOpts...)
			} else {
				enc = encoder.NewOpenAI(cfg.openAIKey, openaiOpts...)
			}
			logger.Info("embedding backend enabled", "backend", "openai", "model", cfg.embeddingModel)
		} else {
			hugotEncoder := encoder.NewHugot(cfg.modelDir)
			if !hugotEncoder.Available() {
				return nil, fmt.Errorf("no embedding model found in %s: download a model or configure an external embedding backend", cfg.modelDir)
			}
			enc = hugotEncoder
			closers = append(closers, hugotEncoder)
			logger.Info("embedding backend enabled", "backend", "hugot", "model_dir", cfg.modelDir)
		}
	}

	// Open the persisted index store unless persistence is disabled
	var store *index.Store
	if cfg.indexDBPath != "" {
		var err error
		store, err = index.NewStore(cfg.indexDBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("open index store: %w", err)
		}
		closers = append(closers, store)
	}

	active := service.NewActive()
	links := service.NewGovernanceLinks(cfg.governanceBaseURL)
	bulk := domainservice.NewBulkEncoder(enc, cfg.batchSize, cfg.parallelism)
	indexCfg := index.NewConfig(cfg.indexKind, cfg.ivfLists, cfg.ivfProbes)

	client := &Client{
		Search:  service.NewSearch(active, enc, links, cfg.defaultTopK, cfg.minSimilarity, logger),
		Updater: service.NewUpdater(active, bulk, store, indexCfg, cfg.catalogPath, logger),
		active:  active,
		links:   links,
		store:   store,
		closers: closers,
		logger:  logger,
	}

	return client, nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// GovernanceLinks returns the governance link builder, for callers that
// update the base URL at runtime.
func (c *Client) GovernanceLinks() *service.GovernanceLinks {
	return c.links
}

// Ready reports whether a catalog snapshot is active and searchable.
func (c *Client) Ready() bool {
	return c.active.Snapshot() != nil
}

// Close releases the client's resources. Safe to call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewFromConfig creates a Client from a loaded application config.
func NewFromConfig(cfg config.AppConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	base := []Option{
		WithCatalogPath(cfg.CatalogPath()),
		WithGovernanceBaseURL(cfg.GovernanceBaseURL()),
		WithDefaultTopK(cfg.SearchTopK()),
		WithMinSimilarity(cfg.MinSimilarity()),
		WithIndexKind(cfg.IndexKind()),
		WithIVF(cfg.IVFLists(), cfg.IVFProbes()),
		WithBatchSize(cfg.BatchSize()),
		WithParallelism(cfg.Parallelism()),
		WithLogger(logger),
	}

	if err := cfg.EnsureIndexDir(); err != nil {
		return nil, err
	}
	base = append(base, WithIndexDB(cfg.IndexDBPath()))

	switch cfg.EmbeddingBackend() {
	case config.BackendOpenAI:
		base = append(base,
			WithOpenAI(cfg.OpenAIAPIKey()),
			WithEmbeddingModel(cfg.EmbeddingModel()),
			WithEmbeddingBaseURL(cfg.EmbeddingBaseURL()),
		)
	default:
		base = append(base, WithModelDir(cfg.ModelDir()))
	}

	return New(append(base, opts...)...)
}
