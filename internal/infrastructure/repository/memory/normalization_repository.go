package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/matchfeed/internal/domain/normalization"
)

type NormalizationRepository struct {
	mu     sync.RWMutex
	runs   map[string]normalization.Run
	events map[string][]normalization.EventRow
}

func NewNormalizationRepository() *NormalizationRepository {
	return &NormalizationRepository{
		runs:   make(map[string]normalization.Run),
		events: make(map[string][]normalization.EventRow),
	}
}

func (r *NormalizationRepository) CreateRun(_ context.Context, run normalization.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[run.ID]; ok {
		return fmt.Errorf("create run id=%s: already exists", run.ID)
	}
	r.runs[run.ID] = cloneRun(run)
	return nil
}

func (r *NormalizationRepository) FinishRun(_ context.Context, run normalization.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[run.ID]; !ok {
		return fmt.Errorf("finish run id=%s: run not found", run.ID)
	}
	r.runs[run.ID] = cloneRun(run)
	return nil
}

func (r *NormalizationRepository) GetRun(_ context.Context, id string) (normalization.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return normalization.Run{}, false, nil
	}
	return cloneRun(run), true, nil
}

func (r *NormalizationRepository) InsertEvents(_ context.Context, rows []normalization.EventRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		existing := r.events[row.RunID]
		duplicate := false
		for _, item := range existing {
			if item.Seq == row.Seq {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		row.Qualifiers = append([]string(nil), row.Qualifiers...)
		r.events[row.RunID] = append(existing, row)
	}
	return nil
}

func (r *NormalizationRepository) ListEvents(_ context.Context, runID string) ([]normalization.EventRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]normalization.EventRow(nil), r.events[runID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func cloneRun(run normalization.Run) normalization.Run {
	copied := run
	if run.FinishedAt != nil {
		finished := *run.FinishedAt
		copied.FinishedAt = &finished
	}
	return copied
}
