// Package app wires configuration into a ready normalize service.
package app

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchfeed/external/uefa"
	"github.com/riskibarqy/matchfeed/internal/config"
	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/domain/normalization"
	"github.com/riskibarqy/matchfeed/internal/domain/rawdata"
	"github.com/riskibarqy/matchfeed/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchfeed/internal/infrastructure/repository/postgres"
	idgen "github.com/riskibarqy/matchfeed/internal/platform/id"
	"github.com/riskibarqy/matchfeed/internal/platform/logging"
	"github.com/riskibarqy/matchfeed/internal/platform/metrics"
	"github.com/riskibarqy/matchfeed/internal/platform/resilience"
	"github.com/riskibarqy/matchfeed/internal/platform/source"
	"github.com/riskibarqy/matchfeed/internal/provider"
	"github.com/riskibarqy/matchfeed/internal/provider/statsperform"
	uefaprovider "github.com/riskibarqy/matchfeed/internal/provider/uefa"
	"github.com/riskibarqy/matchfeed/internal/usecase"
)

// App holds the wired normalize service and the resources to release after
// the run.
type App struct {
	Service *usecase.NormalizeService
	Metrics *metrics.Manager

	db *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	metricManager := metrics.NewManager()

	opts := provider.Options{
		Factory:  event.NewDefaultFactory(),
		Logger:   logger,
		Recorder: metricManager,
	}
	if len(cfg.Kinds) > 0 {
		opts.Include = event.KindFilter(cfg.Kinds...)
	}

	loader := source.New(source.Config{
		Timeout:    cfg.FetchTimeout,
		MaxRetries: cfg.FetchMaxRetries,
		CacheTTL:   cfg.FetchCacheTTL,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FetchCircuitEnabled,
			FailureThreshold: cfg.FetchCircuitFailureCount,
			OpenTimeout:      cfg.FetchCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FetchCircuitHalfOpenMaxReq,
		},
	})
	uefaClient := uefa.NewClient(uefa.ClientConfig{
		BaseURL: cfg.UEFABaseURL,
		Loader:  loader,
		Logger:  logger,
	})

	app := &App{Metrics: metricManager}

	var (
		runRepo     normalization.Repository
		rawDataRepo rawdata.Repository
	)
	if cfg.DBEnabled {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.db = db
		runRepo = postgres.NewNormalizationRepository(db)
		rawDataRepo = postgres.NewRawDataRepository(db)
		logger.Info("postgres storage enabled", "db_name", dbNameFromURL(cfg.DBURL))
	} else {
		runRepo = memory.NewNormalizationRepository()
		rawDataRepo = memory.NewRawDataRepository()
	}

	app.Service = usecase.NewNormalizeService(usecase.NormalizeServiceConfig{
		Deserializers: []provider.Deserializer{
			statsperform.New(opts),
			uefaprovider.New(opts),
		},
		Loader: loader,
		Fetchers: map[event.Provider]usecase.MatchFetcher{
			event.ProviderUEFA: uefaClient,
		},
		RunRepo:     runRepo,
		RawDataRepo: rawDataRepo,
		IDGenerator: idgen.NewUUIDGenerator(),
		Observer:    metricManager,
		Logger:      logger,
	})
	return app, nil
}

// Close releases the database pool when one was opened.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
