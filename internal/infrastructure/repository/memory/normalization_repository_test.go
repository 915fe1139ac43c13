package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/matchfeed/internal/domain/normalization"
	"github.com/riskibarqy/matchfeed/internal/domain/rawdata"
)

func TestNormalizationRepository_RunLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewNormalizationRepository()
	run := normalization.Run{ID: "r1", Provider: "uefa", Status: normalization.RunStatusRunning, StartedAt: time.Now()}

	if err := repo.FinishRun(ctx, run); err == nil {
		t.Fatalf("expected error finishing unknown run")
	}
	if err := repo.CreateRun(ctx, run); err != nil {
		t.Fatalf("create run: %v", err)
	}
	if err := repo.CreateRun(ctx, run); err == nil {
		t.Fatalf("expected duplicate run error")
	}

	finished := time.Now()
	run.Status = normalization.RunStatusSucceeded
	run.FinishedAt = &finished
	if err := repo.FinishRun(ctx, run); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	got, ok, err := repo.GetRun(ctx, "r1")
	if err != nil || !ok {
		t.Fatalf("get run ok=%v err=%v", ok, err)
	}
	if got.Status != normalization.RunStatusSucceeded || got.FinishedAt == nil {
		t.Fatalf("unexpected run: %+v", got)
	}
	if _, ok, _ := repo.GetRun(ctx, "missing"); ok {
		t.Fatalf("expected missing run")
	}
}

func TestNormalizationRepository_EventsOrderedAndDeduplicated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewNormalizationRepository()
	rows := []normalization.EventRow{
		{RunID: "r1", Seq: 1, EventID: "b"},
		{RunID: "r1", Seq: 0, EventID: "a"},
		{RunID: "r2", Seq: 0, EventID: "other"},
	}
	if err := repo.InsertEvents(ctx, rows); err != nil {
		t.Fatalf("insert events: %v", err)
	}
	if err := repo.InsertEvents(ctx, []normalization.EventRow{{RunID: "r1", Seq: 1, EventID: "dup"}}); err != nil {
		t.Fatalf("insert duplicate: %v", err)
	}

	got, err := repo.ListEvents(ctx, "r1")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "a" || got[1].EventID != "b" {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestRawDataRepository_UpsertMany(t *testing.T) {
	t.Parallel()

	repo := NewRawDataRepository()
	first := rawdata.Payload{RunID: "r1", Source: "uefa", EntityType: rawdata.EntityEvents, EntityKey: "42", PayloadHash: "h1"}
	second := first
	second.RunID = "r2"

	if err := repo.UpsertMany(context.Background(), []rawdata.Payload{first}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpsertMany(context.Background(), []rawdata.Payload{second}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, ok := repo.Get("uefa", rawdata.EntityEvents, "42")
	if !ok || got.RunID != "r1" {
		t.Fatalf("expected unchanged payload to keep first run, got %+v", got)
	}
}
