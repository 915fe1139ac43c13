package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/domain/normalization"
	"github.com/riskibarqy/matchfeed/internal/domain/rawdata"
	idgen "github.com/riskibarqy/matchfeed/internal/platform/id"
	"github.com/riskibarqy/matchfeed/internal/platform/logging"
	"github.com/riskibarqy/matchfeed/internal/provider"
)

// DocumentLoader reads a feed document from a path or URL.
type DocumentLoader interface {
	Load(ctx context.Context, location string) ([]byte, error)
}

// MatchFetcher resolves a provider match id to both feed documents.
type MatchFetcher interface {
	FetchMatch(ctx context.Context, matchID string) (provider.Inputs, error)
}

// RunObserver receives the outcome of every run.
type RunObserver interface {
	ObserveDataset(dataset *event.Dataset)
	ObserveRun(provider event.Provider, elapsed time.Duration, err error)
}

type NormalizeRequest struct {
	Provider         event.Provider
	MatchKey         string
	MetadataLocation string
	EventsLocation   string
	// MatchID selects the remote feed of the provider instead of locations.
	MatchID string
}

type NormalizeResult struct {
	RunID       string         `json:"run_id"`
	Provider    string         `json:"provider"`
	MatchKey    string         `json:"match_key"`
	Status      string         `json:"status"`
	Records     int            `json:"records"`
	Emitted     int            `json:"emitted"`
	Markers     int            `json:"period_markers"`
	Skipped     int            `json:"skipped"`
	Filtered    int            `json:"filtered"`
	Periods     int            `json:"periods"`
	EventCounts map[string]int `json:"event_counts,omitempty"`
	DurationMs  int64          `json:"duration_ms"`
	Error       string         `json:"error,omitempty"`

	Dataset *event.Dataset `json:"-"`
}

type BatchResult struct {
	TaskCount    int               `json:"task_count"`
	SuccessCount int               `json:"success_count"`
	FailedCount  int               `json:"failed_count"`
	WorkerCount  int               `json:"worker_count"`
	Runs         []NormalizeResult `json:"runs"`
}

type NormalizeServiceConfig struct {
	Deserializers []provider.Deserializer
	Loader        DocumentLoader
	// Fetchers maps a provider to its match id client.
	Fetchers    map[event.Provider]MatchFetcher
	RunRepo     normalization.Repository
	RawDataRepo rawdata.Repository
	IDGenerator idgen.Generator
	Observer    RunObserver
	Logger      *logging.Logger
}

type NormalizeService struct {
	deserializers map[event.Provider]provider.Deserializer
	loader        DocumentLoader
	fetchers      map[event.Provider]MatchFetcher
	runRepo       normalization.Repository
	rawDataRepo   rawdata.Repository
	ids           idgen.Generator
	observer      RunObserver
	logger        *logging.Logger
	now           func() time.Time
}

func NewNormalizeService(cfg NormalizeServiceConfig) *NormalizeService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.NewUUIDGenerator()
	}

	deserializers := make(map[event.Provider]provider.Deserializer, len(cfg.Deserializers))
	for _, item := range cfg.Deserializers {
		deserializers[item.Provider()] = item
	}

	return &NormalizeService{
		deserializers: deserializers,
		loader:        cfg.Loader,
		fetchers:      cfg.Fetchers,
		runRepo:       cfg.RunRepo,
		rawDataRepo:   cfg.RawDataRepo,
		ids:           ids,
		observer:      cfg.Observer,
		logger:        logger,
		now:           time.Now,
	}
}

// Normalize acquires the feed documents of one match, folds them into a
// dataset and stores the run, raw payloads and event rows. The returned result
// describes the run even when err is not nil.
func (s *NormalizeService) Normalize(ctx context.Context, req NormalizeRequest) (NormalizeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizeService.Normalize",
		attribute.String("provider", string(req.Provider)),
		attribute.String("match_id", req.MatchID),
	)
	defer span.End()

	req, deserializer, err := s.prepare(req)
	if err != nil {
		return NormalizeResult{Provider: string(req.Provider), MatchKey: req.MatchKey, Status: string(normalization.RunStatusFailed), Error: err.Error()}, err
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return NormalizeResult{}, fmt.Errorf("generate run id: %w", err)
	}

	started := s.now()
	run := normalization.Run{
		ID:        runID,
		Provider:  string(req.Provider),
		MatchKey:  req.MatchKey,
		Status:    normalization.RunStatusRunning,
		StartedAt: started,
	}
	logger := s.logger.With("run_id", runID, "provider", req.Provider, "match_key", req.MatchKey)

	if s.runRepo != nil {
		if err := s.runRepo.CreateRun(ctx, run); err != nil {
			return NormalizeResult{}, fmt.Errorf("%w: create run: %v", ErrDependencyUnavailable, err)
		}
	}

	dataset, runErr := s.execute(ctx, run, req, deserializer)
	elapsed := s.now().Sub(started)

	finished := started.Add(elapsed)
	run.FinishedAt = &finished
	run.Status = normalization.RunStatusSucceeded
	if runErr != nil {
		run.Status = normalization.RunStatusFailed
		run.Error = runErr.Error()
	}
	if dataset != nil {
		run.Records = dataset.Stats.Records
		run.Emitted = dataset.Stats.Emitted
		run.Markers = dataset.Stats.Markers
		run.Skipped = dataset.Stats.Skipped
		run.Filtered = dataset.Stats.Filtered
	}

	if s.runRepo != nil {
		if err := s.runRepo.FinishRun(ctx, run); err != nil && runErr == nil {
			runErr = fmt.Errorf("%w: finish run: %v", ErrDependencyUnavailable, err)
			run.Status = normalization.RunStatusFailed
			run.Error = runErr.Error()
		}
	}
	if s.observer != nil {
		s.observer.ObserveRun(req.Provider, elapsed, runErr)
		if runErr == nil {
			s.observer.ObserveDataset(dataset)
		}
	}

	result := resultFromRun(run, dataset, elapsed)
	if runErr != nil {
		logger.ErrorContext(ctx, "normalization failed", "error", runErr, "duration_ms", result.DurationMs)
		return result, runErr
	}
	logger.InfoContext(ctx, "normalization finished",
		"events", result.Emitted,
		"skipped", result.Skipped,
		"filtered", result.Filtered,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

// NormalizeBatch runs independent matches on a bounded worker pool. Runs are
// returned in request order; one failed match does not stop the others.
func (s *NormalizeService) NormalizeBatch(ctx context.Context, reqs []NormalizeRequest, maxWorkers int) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizeService.NormalizeBatch", attribute.Int("matches", len(reqs)))
	defer span.End()

	if len(reqs) == 0 {
		return BatchResult{}, fmt.Errorf("%w: at least one match is required", ErrInvalidInput)
	}

	workerCount := maxWorkers
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(reqs) {
		workerCount = len(reqs)
	}

	result := BatchResult{
		TaskCount:   len(reqs),
		WorkerCount: workerCount,
		Runs:        make([]NormalizeResult, len(reqs)),
	}

	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, req := range reqs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if ctxErr := ctx.Err(); ctxErr != nil {
				result.Runs[i] = NormalizeResult{
					Provider: string(req.Provider),
					MatchKey: req.MatchKey,
					Status:   string(normalization.RunStatusFailed),
					Error:    ctxErr.Error(),
				}
				failedCount.Add(1)
				return
			}

			run, runErr := s.Normalize(ctx, req)
			result.Runs[i] = run
			if runErr != nil {
				failedCount.Add(1)
				return
			}
			successCount.Add(1)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return BatchResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

// GetRun returns a stored run with its event rows in dataset order.
func (s *NormalizeService) GetRun(ctx context.Context, runID string) (normalization.Run, []normalization.EventRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizeService.GetRun")
	defer span.End()

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return normalization.Run{}, nil, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	if s.runRepo == nil {
		return normalization.Run{}, nil, fmt.Errorf("%w: no run repository configured", ErrDependencyUnavailable)
	}

	run, found, err := s.runRepo.GetRun(ctx, runID)
	if err != nil {
		return normalization.Run{}, nil, fmt.Errorf("%w: get run: %v", ErrDependencyUnavailable, err)
	}
	if !found {
		return normalization.Run{}, nil, fmt.Errorf("%w: run=%s", ErrNotFound, runID)
	}

	rows, err := s.runRepo.ListEvents(ctx, runID)
	if err != nil {
		return normalization.Run{}, nil, fmt.Errorf("%w: list events: %v", ErrDependencyUnavailable, err)
	}
	return run, rows, nil
}

func (s *NormalizeService) prepare(req NormalizeRequest) (NormalizeRequest, provider.Deserializer, error) {
	req.MetadataLocation = strings.TrimSpace(req.MetadataLocation)
	req.EventsLocation = strings.TrimSpace(req.EventsLocation)
	req.MatchID = strings.TrimSpace(req.MatchID)
	req.MatchKey = strings.TrimSpace(req.MatchKey)
	if req.MatchKey == "" {
		req.MatchKey = defaultMatchKey(req)
	}

	deserializer, ok := s.deserializers[req.Provider]
	if !ok {
		return req, nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, req.Provider)
	}

	if req.MatchID != "" {
		if _, ok := s.fetchers[req.Provider]; !ok {
			return req, nil, fmt.Errorf("%w: provider %s cannot load by match id", ErrInvalidInput, req.Provider)
		}
		return req, deserializer, nil
	}
	if req.MetadataLocation == "" || req.EventsLocation == "" {
		return req, nil, fmt.Errorf("%w: metadata and events locations are required", ErrInvalidInput)
	}
	if s.loader == nil {
		return req, nil, fmt.Errorf("%w: no document loader configured", ErrDependencyUnavailable)
	}
	return req, deserializer, nil
}

func (s *NormalizeService) execute(ctx context.Context, run normalization.Run, req NormalizeRequest, deserializer provider.Deserializer) (*event.Dataset, error) {
	inputs, err := s.acquire(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.storeRawPayloads(ctx, run, req, inputs); err != nil {
		return nil, err
	}

	dataset, err := deserializer.Deserialize(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("deserialize %s feed: %w", req.Provider, err)
	}

	if s.runRepo != nil {
		if err := s.runRepo.InsertEvents(ctx, EventRows(run.ID, dataset)); err != nil {
			return dataset, fmt.Errorf("%w: store events: %v", ErrDependencyUnavailable, err)
		}
	}
	return dataset, nil
}

func (s *NormalizeService) acquire(ctx context.Context, req NormalizeRequest) (provider.Inputs, error) {
	if req.MatchID != "" {
		inputs, err := s.fetchers[req.Provider].FetchMatch(ctx, req.MatchID)
		if err != nil {
			return provider.Inputs{}, fmt.Errorf("fetch match %s: %w", req.MatchID, err)
		}
		return inputs, nil
	}

	metadata, err := s.loader.Load(ctx, req.MetadataLocation)
	if err != nil {
		return provider.Inputs{}, fmt.Errorf("load metadata: %w", err)
	}
	events, err := s.loader.Load(ctx, req.EventsLocation)
	if err != nil {
		return provider.Inputs{}, fmt.Errorf("load events: %w", err)
	}
	return provider.Inputs{Metadata: metadata, Events: events}, nil
}

func (s *NormalizeService) storeRawPayloads(ctx context.Context, run normalization.Run, req NormalizeRequest, inputs provider.Inputs) error {
	if s.rawDataRepo == nil {
		return nil
	}

	items := []rawdata.Payload{
		rawPayload(run, rawdata.EntityMetadata, req.MetadataLocation, inputs.Metadata),
		rawPayload(run, rawdata.EntityEvents, req.EventsLocation, inputs.Events),
	}
	if err := s.rawDataRepo.UpsertMany(ctx, items); err != nil {
		return fmt.Errorf("%w: upsert raw payloads: %v", ErrDependencyUnavailable, err)
	}
	return nil
}

func rawPayload(run normalization.Run, entityType, location string, body []byte) rawdata.Payload {
	hash := sha256.Sum256(body)
	return rawdata.Payload{
		RunID:       run.ID,
		Source:      run.Provider,
		EntityType:  entityType,
		EntityKey:   run.MatchKey,
		Location:    location,
		PayloadJSON: string(body),
		PayloadHash: hex.EncodeToString(hash[:]),
		FetchedAt:   run.StartedAt,
	}
}

func resultFromRun(run normalization.Run, dataset *event.Dataset, elapsed time.Duration) NormalizeResult {
	result := NormalizeResult{
		RunID:      run.ID,
		Provider:   run.Provider,
		MatchKey:   run.MatchKey,
		Status:     string(run.Status),
		Records:    run.Records,
		Emitted:    run.Emitted,
		Markers:    run.Markers,
		Skipped:    run.Skipped,
		Filtered:   run.Filtered,
		DurationMs: elapsed.Milliseconds(),
		Error:      run.Error,
		Dataset:    dataset,
	}
	if dataset != nil {
		result.Periods = len(dataset.Metadata.Periods)
		counts := dataset.CountByKind()
		result.EventCounts = make(map[string]int, len(counts))
		for kind, count := range counts {
			result.EventCounts[string(kind)] = count
		}
	}
	return result
}

func defaultMatchKey(req NormalizeRequest) string {
	if req.MatchID != "" {
		return req.MatchID
	}
	base := filepath.Base(req.EventsLocation)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
