package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv(FileEnv, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ProviderName != event.ProviderStatsPerform {
		t.Fatalf("unexpected provider got=%s want=%s", cfg.ProviderName, event.ProviderStatsPerform)
	}
	if cfg.FetchTimeout != 20*time.Second || cfg.FetchMaxRetries != 2 {
		t.Fatalf("unexpected fetch defaults timeout=%s retries=%d", cfg.FetchTimeout, cfg.FetchMaxRetries)
	}
	if cfg.BatchMaxWorkers != 4 {
		t.Fatalf("unexpected BatchMaxWorkers got=%d want=4", cfg.BatchMaxWorkers)
	}
	if cfg.PyroscopeAppName != cfg.ServiceName {
		t.Fatalf("expected PyroscopeAppName to default to ServiceName, got %q", cfg.PyroscopeAppName)
	}
	if len(cfg.Kinds) != 0 {
		t.Fatalf("expected no event type filter, got %v", cfg.Kinds)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "PROD")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("PROVIDER", "uefa")
	t.Setenv("UEFA_MATCH_IDS", "2036211, 2036212,")
	t.Setenv("EVENT_TYPES", "pass, shot,formation change")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("BATCH_MAX_WORKERS", "8")
	t.Setenv("DB_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppEnv != EnvProd || cfg.LogLevel != logging.LevelWarn {
		t.Fatalf("unexpected env or level: %s %s", cfg.AppEnv, cfg.LogLevel)
	}
	if cfg.ProviderName != event.ProviderUEFA {
		t.Fatalf("unexpected provider: %s", cfg.ProviderName)
	}
	if len(cfg.UEFAMatchIDs) != 2 || cfg.UEFAMatchIDs[1] != "2036212" {
		t.Fatalf("unexpected match ids: %v", cfg.UEFAMatchIDs)
	}
	want := []event.Kind{event.KindPass, event.KindShot, event.KindFormationChange}
	if len(cfg.Kinds) != len(want) {
		t.Fatalf("unexpected kinds got=%v want=%v", cfg.Kinds, want)
	}
	for i := range want {
		if cfg.Kinds[i] != want[i] {
			t.Fatalf("unexpected kinds got=%v want=%v", cfg.Kinds, want)
		}
	}
	if cfg.FetchTimeout != 3*time.Second || cfg.BatchMaxWorkers != 8 || !cfg.DBEnabled {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestLoad_FileLayerBelowEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matchfeed.yaml")
	body := "provider: uefa\nbatch_max_workers: 2\nfetch_max_retries: 5\nevent_types:\n  - card\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(FileEnv, path)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("BATCH_MAX_WORKERS", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ProviderName != event.ProviderUEFA || cfg.FetchMaxRetries != 5 {
		t.Fatalf("expected file values, got provider=%s retries=%d", cfg.ProviderName, cfg.FetchMaxRetries)
	}
	if cfg.BatchMaxWorkers != 6 {
		t.Fatalf("expected env to win over file got=%d want=6", cfg.BatchMaxWorkers)
	}
	if len(cfg.Kinds) != 1 || cfg.Kinds[0] != event.KindCard {
		t.Fatalf("unexpected kinds: %v", cfg.Kinds)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown provider":      {"PROVIDER": "wyscout"},
		"unknown event type":    {"EVENT_TYPES": "pass,dribble"},
		"match ids wrong feed":  {"PROVIDER": "statsperform", "UEFA_MATCH_IDS": "1"},
		"zero timeout":          {"FETCH_TIMEOUT": "0s"},
		"bad timeout":           {"FETCH_TIMEOUT": "soon"},
		"negative retries":      {"FETCH_MAX_RETRIES": "-1"},
		"zero workers":          {"BATCH_MAX_WORKERS": "0"},
		"zero failure count":    {"FETCH_CIRCUIT_FAILURE_COUNT": "0"},
		"uptrace without dsn":   {"UPTRACE_ENABLED": "true"},
		"pyroscope without url": {"PYROSCOPE_ENABLED": "true"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_DSN", "")
			t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
			for key, value := range env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %v", env)
			}
		})
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn=\"https://token@api.uptrace.dev?grpc=4317\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}
