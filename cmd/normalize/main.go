package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"

	"github.com/riskibarqy/matchfeed/internal/app"
	"github.com/riskibarqy/matchfeed/internal/config"
	"github.com/riskibarqy/matchfeed/internal/observability"
	"github.com/riskibarqy/matchfeed/internal/platform/logging"
	"github.com/riskibarqy/matchfeed/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is fine; the real environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 2
	}

	logger := logging.NewJSON(cfg.LogLevel, logging.WithFile(logging.FileSink{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogFileMaxSizeMB,
		MaxBackups: cfg.LogFileMaxBackups,
		MaxAgeDays: cfg.LogFileMaxAgeDays,
	}))
	logging.SetDefault(logger)
	defer logger.Close()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			logger.Warn("stop pyroscope", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, span := otel.Tracer("matchfeed/cmd/normalize").Start(ctx, "normalize")
	defer span.End()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer application.Close()

	reqs := buildRequests(cfg)
	if len(reqs) == 0 {
		logger.Error("nothing to normalize", "hint", "set METADATA_PATH and EVENTS_PATH, or UEFA_MATCH_IDS with PROVIDER=uefa")
		return 2
	}

	var (
		summary any
		failed  bool
	)
	if len(reqs) == 1 {
		result, err := application.Service.Normalize(ctx, reqs[0])
		summary, failed = result, err != nil
	} else {
		result, err := application.Service.NormalizeBatch(ctx, reqs, cfg.BatchMaxWorkers)
		if err != nil {
			logger.Error("normalize batch", "error", err)
			return 1
		}
		summary, failed = result, result.FailedCount > 0
	}

	if err := writeSummary(summary); err != nil {
		logger.Error("write summary", "error", err)
		return 1
	}

	if cfg.MetricsTextfile != "" {
		if err := application.Metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	if failed {
		return 1
	}
	return 0
}

func buildRequests(cfg config.Config) []usecase.NormalizeRequest {
	if len(cfg.UEFAMatchIDs) > 0 {
		reqs := make([]usecase.NormalizeRequest, 0, len(cfg.UEFAMatchIDs))
		for _, matchID := range cfg.UEFAMatchIDs {
			reqs = append(reqs, usecase.NormalizeRequest{
				Provider: cfg.ProviderName,
				MatchID:  matchID,
			})
		}
		return reqs
	}

	if cfg.MetadataPath == "" || cfg.EventsPath == "" {
		return nil
	}
	return []usecase.NormalizeRequest{{
		Provider:         cfg.ProviderName,
		MetadataLocation: cfg.MetadataPath,
		EventsLocation:   cfg.EventsPath,
	}}
}

func writeSummary(summary any) error {
	body, err := sonic.ConfigStd.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(body))
	return err
}
