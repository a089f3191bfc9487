// Package bootstrap assembles the components shared by the API server, the
// export worker and the CLI from their loaded configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"perangkum/internal/config"
	"perangkum/internal/domain/entity"
	"perangkum/internal/infra/adapter/persistence/filesystem"
	"perangkum/internal/infra/adapter/persistence/postgres"
	"perangkum/internal/infra/db"
	"perangkum/internal/infra/extractor"
	"perangkum/internal/infra/feed"
	"perangkum/internal/infra/fetcher"
	"perangkum/internal/infra/summarizer"
	"perangkum/internal/repository"
	"perangkum/internal/resilience/circuitbreaker"
	docUC "perangkum/internal/usecase/document"
	summaryUC "perangkum/internal/usecase/summary"
)

// Store is an opened document store. DB and Breaker are nil for the
// filesystem store.
type Store struct {
	Repo         repository.DocumentRepository
	DB           *sql.DB
	Breaker      *circuitbreaker.CircuitBreaker
	DocumentsDir string
}

// Close releases the database connection, if any.
func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// OpenStore opens the store selected by cfg. The postgres store is migrated
// and its queries go through a circuit breaker.
func OpenStore(ctx context.Context, cfg *config.StoreConfig, logger *slog.Logger) (*Store, error) {
	switch cfg.Kind {
	case config.StorePostgres:
		database, err := db.Open(ctx, cfg.DatabaseURL, db.ConnectionConfigFromEnv())
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.MigrateUp(ctx, database); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("document store ready", slog.String("kind", cfg.Kind))
		guard := circuitbreaker.NewStoreGuard(database)
		return &Store{
			Repo:    postgres.NewDocumentRepo(guard),
			DB:      database,
			Breaker: guard.Breaker(),
		}, nil
	default:
		logger.Info("document store ready",
			slog.String("kind", cfg.Kind),
			slog.String("dir", cfg.DocumentsDir))
		return &Store{
			Repo:         filesystem.NewDocumentRepo(cfg.DocumentsDir),
			DocumentsDir: cfg.DocumentsDir,
		}, nil
	}
}

// NewSummarizer builds the TF-IDF summarizer with Prometheus metrics.
func NewSummarizer(cfg *config.SummarizerConfig) (*summarizer.TFIDF, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	tfidf, err := summarizer.NewTFIDF(opts)
	if err != nil {
		return nil, err
	}
	return tfidf, nil
}

// NewExtractor returns the extractor registry bounded to maxSize bytes.
func NewExtractor(maxSize int64) *extractor.Registry {
	return extractor.NewRegistry(extractor.Config{MaxSize: maxSize})
}

// NewDocumentService wires the document use case over store.
func NewDocumentService(store *Store, registry *extractor.Registry, maxSize int64) *docUC.Service {
	return docUC.NewService(store.Repo, registry, docUC.Config{
		MaxSize: maxSize,
		Encoders: map[entity.Format]docUC.Encoder{
			entity.FormatDOCX: extractor.EncodeDOCX,
			entity.FormatPDF:  extractor.EncodePDF,
		},
	})
}

// NewSummaryService wires the summary use case. Fetching is configured from
// the FETCH_* variables; a bad value disables URL and feed summaries.
func NewSummaryService(
	store *Store,
	registry *extractor.Registry,
	tfidf *summarizer.TFIDF,
	cfg *config.SummarizerConfig,
	logger *slog.Logger,
) *summaryUC.Service {
	var (
		contentFetcher summaryUC.ContentFetcher
		feedReader     summaryUC.FeedReader
	)
	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Warn("remote fetching disabled", slog.Any("error", err))
	} else {
		contentFetcher = fetcher.NewReadabilityFetcher(fetchCfg)
		feedReader = feed.NewRSSReader(fetchCfg)
		logger.Info("remote fetching enabled",
			slog.Duration("timeout", fetchCfg.Timeout),
			slog.Int64("max_body_size", fetchCfg.MaxBodySize),
			slog.Bool("deny_private_ips", fetchCfg.DenyPrivateIPs))
	}

	var repo repository.DocumentRepository
	if store != nil {
		repo = store.Repo
	}
	return summaryUC.NewService(
		repo,
		registry,
		tfidf,
		summarizer.NewNoOp(),
		contentFetcher,
		feedReader,
		summaryUC.Config{
			Parallelism:     cfg.Parallelism,
			FallbackOnEmpty: cfg.FallbackOnEmpty,
		},
	)
}
