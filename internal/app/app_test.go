package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/matchfeed/internal/config"
	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/platform/logging"
	"github.com/riskibarqy/matchfeed/internal/usecase"
)

const (
	lineupsDoc = `{
  "homeTeam": {"team": {"id": "1", "internationalName": "Home"},
    "field": [{"jerseyNumber": 1, "player": {"id": "h1", "internationalName": "Keeper", "fieldPosition": "GOALKEEPER"}}], "bench": []},
  "awayTeam": {"team": {"id": "2", "internationalName": "Away"},
    "field": [{"jerseyNumber": 9, "player": {"id": "a9", "internationalName": "Forward", "fieldPosition": "FORWARD"}}], "bench": []}
}`
	eventsDoc = `[
  {"id": "e2", "phase": "FIRST_HALF", "type": "FOUL", "timestamp": "2024-03-02T20:06:00Z", "primaryActor": {"team": {"id": "1"}}},
  {"id": "e1", "phase": "FIRST_HALF", "type": "SHOT_WIDE", "timestamp": "2024-03-02T20:05:00Z", "primaryActor": {"team": {"id": "2"}, "person": {"id": "a9"}}},
  {"id": "s1", "phase": "FIRST_HALF", "type": "START_PHASE", "timestamp": "2024-03-02T20:00:00Z"}
]`
)

func TestNew_InMemoryNormalizeFromFiles(t *testing.T) {
	dir := t.TempDir()
	lineups := filepath.Join(dir, "lineups.json")
	events := filepath.Join(dir, "events.json")
	if err := os.WriteFile(lineups, []byte(lineupsDoc), 0o600); err != nil {
		t.Fatalf("write lineups: %v", err)
	}
	if err := os.WriteFile(events, []byte(eventsDoc), 0o600); err != nil {
		t.Fatalf("write events: %v", err)
	}

	cfg := config.Defaults()
	cfg.Kinds = []event.Kind{event.KindShot}

	application, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer application.Close()

	result, err := application.Service.Normalize(context.Background(), usecase.NormalizeRequest{
		Provider:         event.ProviderUEFA,
		MetadataLocation: lineups,
		EventsLocation:   events,
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if result.Emitted != 1 || result.Filtered != 1 || result.EventCounts[string(event.KindShot)] != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.MatchKey != "events" {
		t.Fatalf("unexpected match key got=%s want=events", result.MatchKey)
	}
}
