package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/matchfeed/internal/domain/event"
)

const (
	codeStart    = 32
	codeEnd      = 30
	codePass     = 1
	codeFoul     = 4
	codeRecovery = 49
)

var kickoff = time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)

func at(offset time.Duration) *time.Time {
	ts := kickoff.Add(offset)
	return &ts
}

func testTeams() Teams {
	home := &event.Team{ID: "A", Name: "Home", Ground: event.GroundHome}
	home.Players = []*event.Player{{ID: "a1", TeamID: "A", Name: "Home One"}}
	away := &event.Team{ID: "B", Name: "Away", Ground: event.GroundAway}
	away.Players = []*event.Player{{ID: "b1", TeamID: "B", Name: "Away One"}}
	return Teams{Home: home, Away: away}
}

func testTables() Tables[int] {
	generic := func(in *BuildInput[int]) (event.Event, error) {
		return in.Factory.BuildGeneric(in.Base(), "generic"), nil
	}
	return Tables[int]{
		Provider:    event.ProviderStatsPerform,
		PeriodStart: codeStart,
		PeriodEnd:   codeEnd,
		Possession:  NewCodeSet(codePass, codeRecovery),
		Builders: map[int]Builder[int]{
			codePass: func(in *BuildInput[int]) (event.Event, error) {
				base := in.Base()
				base.Qualifiers = in.Qualifiers
				result := event.PassIncomplete
				if in.Record.Outcome == 1 {
					result = event.PassComplete
				}
				return in.Factory.BuildPass(base, event.PassAttributes{Result: result}), nil
			},
			codeFoul: func(in *BuildInput[int]) (event.Event, error) {
				return in.Factory.BuildFoulCommitted(in.Base()), nil
			},
			codeRecovery: func(in *BuildInput[int]) (event.Event, error) {
				return in.Factory.BuildRecovery(in.Base()), nil
			},
		},
		Fallback: generic,
		Chains: ChainSet{
			{Category: event.QualifierSetPiece, Rules: []Rule{
				R(string(event.SetPieceCornerKick), 6),
				R(string(event.SetPieceFreeKick), 5, 26),
			}},
		},
	}
}

func newTestEngine(tables Tables[int]) *Engine[int] {
	return New(tables, Config{})
}

func eventIDs(events []event.Event) []string {
	out := make([]string, 0, len(events))
	for _, item := range events {
		out = append(out, item.Common().EventID)
	}
	return out
}

func TestEngineRun_OrderedSubsequence(t *testing.T) {
	t.Parallel()

	records := []Record[int]{
		{EventID: "s1", TypeCode: codeStart, PeriodID: 1, Timestamp: at(0)},
		{EventID: "e1", TypeCode: codePass, PeriodID: 1, Timestamp: at(time.Second), TeamRef: "A", Outcome: 1},
		{EventID: "e2", TypeCode: codeFoul, PeriodID: 2, Timestamp: at(2 * time.Second), TeamRef: "B"},
		{EventID: "e3", TypeCode: 99, PeriodID: 1, Timestamp: nil, TeamRef: "B"},
		{EventID: "e4", TypeCode: codeRecovery, PeriodID: 1, Timestamp: at(3 * time.Second), TeamRef: "B"},
		{EventID: "x1", TypeCode: codeEnd, PeriodID: 1, Timestamp: at(45 * time.Minute)},
		{EventID: "s2", TypeCode: codeStart, PeriodID: 2, Timestamp: at(60 * time.Minute)},
		{EventID: "e5", TypeCode: codeFoul, PeriodID: 2, Timestamp: at(61 * time.Minute), TeamRef: "A"},
	}

	result, err := newTestEngine(testTables()).Run(context.Background(), records, testTeams(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got := eventIDs(result.Events)
	want := []string{"e1", "e4", "e5"}
	if len(got) != len(want) {
		t.Fatalf("unexpected events got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected event at %d got=%s want=%s", i, got[i], want[i])
		}
	}

	lastPeriod := 0
	for _, item := range result.Events {
		period := item.Common().Period
		if !period.Started() {
			t.Fatalf("event %s emitted with unstarted period", item.Common().EventID)
		}
		if period.ID < lastPeriod {
			t.Fatalf("period ids must not decrease, got=%d after=%d", period.ID, lastPeriod)
		}
		lastPeriod = period.ID
	}

	if result.Stats.Records != len(records) || result.Stats.Emitted != 3 || result.Stats.Markers != 3 || result.Stats.Skipped != 2 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
}

func TestEngineRun_SinglePassScenario(t *testing.T) {
	t.Parallel()

	records := []Record[int]{
		{EventID: "start", TypeCode: codeStart, PeriodID: 1, Timestamp: at(0)},
		{EventID: "pass", TypeCode: codePass, PeriodID: 1, Timestamp: at(5 * time.Second), TeamRef: "A", PlayerRef: "a1", Outcome: 1,
			Coordinates: &event.Point{X: 30, Y: 40}},
		{EventID: "end", TypeCode: codeEnd, PeriodID: 1, Timestamp: at(90 * time.Second)},
	}

	result, err := newTestEngine(testTables()).Run(context.Background(), records, testTeams(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Events) != 1 {
		t.Fatalf("unexpected event count got=%d want=1", len(result.Events))
	}

	pass, ok := result.Events[0].(*event.PassEvent)
	if !ok {
		t.Fatalf("expected pass event, got %T", result.Events[0])
	}
	if pass.Result != event.PassComplete {
		t.Fatalf("unexpected result got=%s want=%s", pass.Result, event.PassComplete)
	}
	if pass.Timestamp != 5*time.Second {
		t.Fatalf("unexpected timestamp got=%s want=5s", pass.Timestamp)
	}
	if pass.Player == nil || pass.Player.ID != "a1" {
		t.Fatalf("expected player a1, got %+v", pass.Player)
	}
	if pass.BallState != event.BallStateAlive {
		t.Fatalf("unexpected ball state got=%s", pass.BallState)
	}

	period := result.Periods[0]
	if period.EndTimestamp == nil || !period.EndTimestamp.Equal(kickoff.Add(90*time.Second)) {
		t.Fatalf("expected period end to be set, got %v", period.EndTimestamp)
	}
}

func TestEngineRun_PossessionPersistsAcrossNonTransferringEvents(t *testing.T) {
	t.Parallel()

	records := []Record[int]{
		{EventID: "start", TypeCode: codeStart, PeriodID: 1, Timestamp: at(0)},
		{EventID: "f0", TypeCode: codeFoul, PeriodID: 1, Timestamp: at(time.Second), TeamRef: "B"},
		{EventID: "p1", TypeCode: codePass, PeriodID: 1, Timestamp: at(2 * time.Second), TeamRef: "A", Outcome: 1},
		{EventID: "f1", TypeCode: codeFoul, PeriodID: 1, Timestamp: at(3 * time.Second), TeamRef: "B"},
		{EventID: "g1", TypeCode: 77, PeriodID: 1, Timestamp: at(4 * time.Second), TeamRef: "B"},
		{EventID: "r1", TypeCode: codeRecovery, PeriodID: 1, Timestamp: at(5 * time.Second), TeamRef: "B"},
	}

	result, err := newTestEngine(testTables()).Run(context.Background(), records, testTeams(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := map[string]string{"f0": "", "p1": "A", "f1": "A", "g1": "A", "r1": "B"}
	for _, item := range result.Events {
		base := item.Common()
		got := ""
		if base.BallOwningTeam != nil {
			got = base.BallOwningTeam.ID
		}
		if got != want[base.EventID] {
			t.Fatalf("unexpected possession for %s got=%q want=%q", base.EventID, got, want[base.EventID])
		}
	}
}

func TestEngineRun_NoTransferringEventsLeavesPossessionNil(t *testing.T) {
	t.Parallel()

	records := []Record[int]{
		{EventID: "start", TypeCode: codeStart, PeriodID: 1, Timestamp: at(0)},
		{EventID: "f0", TypeCode: codeFoul, PeriodID: 1, Timestamp: at(time.Second), TeamRef: "B"},
		{EventID: "f1", TypeCode: codeFoul, PeriodID: 1, Timestamp: at(2 * time.Second), TeamRef: "A"},
	}

	result, err := newTestEngine(testTables()).Run(context.Background(), records, testTeams(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, item := range result.Events {
		if item.Common().BallOwningTeam != nil {
			t.Fatalf("expected nil possession on %s", item.Common().EventID)
		}
	}
}

func TestEngineRun_DropsEventBeforePeriodStart(t *testing.T) {
	t.Parallel()

	records := []Record[int]{
		{EventID: "start1", TypeCode: codeStart, PeriodID: 1, Timestamp: at(0)},
		{EventID: "early", TypeCode: codeFoul, PeriodID: 2, Timestamp: at(time.Second), TeamRef: "A"},
		{EventID: "ok", TypeCode: codeFoul, PeriodID: 1, Timestamp: at(2 * time.Second), TeamRef: "A"},
	}

	result, err := newTestEngine(testTables()).Run(context.Background(), records, testTeams(), event.NewPeriods(2))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := eventIDs(result.Events)
	if len(got) != 1 || got[0] != "ok" {
		t.Fatalf("unexpected events got=%v want=[ok]", got)
	}
	if len(result.Periods) != 2 || result.Periods[1].Started() {
		t.Fatalf("expected seeded period 2 to stay unstarted, got %+v", result.Periods)
	}
}

func TestEngineRun_UnknownTeamIsFatal(t *testing.T) {
	t.Parallel()

	records := []Record[int]{
		{EventID: "start", TypeCode: codeStart, PeriodID: 1, Timestamp: at(0)},
		{EventID: "bad", TypeCode: codeFoul, PeriodID: 1, Timestamp: at(time.Second), TeamRef: "Z"},
	}

	_, err := newTestEngine(testTables()).Run(context.Background(), records, testTeams(), nil)
	if err == nil {
		t.Fatalf("expected error for unknown team")
	}
	if !errors.Is(err, ErrDeserialization) {
		t.Fatalf("expected deserialization error, got %v", err)
	}
	var target *DeserializationError
	if !errors.As(err, &target) {
		t.Fatalf("expected *DeserializationError, got %T", err)
	}
}

func TestEngineRun_BuilderErrorIsWrapped(t *testing.T) {
	t.Parallel()

	tables := testTables()
	tables.Builders[codeFoul] = func(in *BuildInput[int]) (event.Event, error) {
		return nil, errors.New("boom")
	}
	records := []Record[int]{
		{EventID: "start", TypeCode: codeStart, PeriodID: 1, Timestamp: at(0)},
		{EventID: "f", TypeCode: codeFoul, PeriodID: 1, Timestamp: at(time.Second), TeamRef: "A"},
	}

	_, err := newTestEngine(tables).Run(context.Background(), records, testTeams(), nil)
	if !errors.Is(err, ErrDeserialization) {
		t.Fatalf("expected deserialization error, got %v", err)
	}
}

func TestEngineRun_ReverseOrder(t *testing.T) {
	t.Parallel()

	tables := testTables()
	tables.ReverseOrder = true
	records := []Record[int]{
		{EventID: "f2", TypeCode: codeFoul, PeriodID: 1, Timestamp: at(2 * time.Second), TeamRef: "A"},
		{EventID: "f1", TypeCode: codeFoul, PeriodID: 1, Timestamp: at(time.Second), TeamRef: "A"},
		{EventID: "start", TypeCode: codeStart, PeriodID: 1, Timestamp: at(0)},
	}

	result, err := newTestEngine(tables).Run(context.Background(), records, testTeams(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := eventIDs(result.Events)
	if len(got) != 2 || got[0] != "f1" || got[1] != "f2" {
		t.Fatalf("unexpected order got=%v want=[f1 f2]", got)
	}
}

func TestEngineRun_IncludePredicateFiltersSilently(t *testing.T) {
	t.Parallel()

	records := []Record[int]{
		{EventID: "start", TypeCode: codeStart, PeriodID: 1, Timestamp: at(0)},
		{EventID: "p", TypeCode: codePass, PeriodID: 1, Timestamp: at(time.Second), TeamRef: "A", Outcome: 1},
		{EventID: "f", TypeCode: codeFoul, PeriodID: 1, Timestamp: at(2 * time.Second), TeamRef: "B"},
	}

	engine := New(testTables(), Config{Include: event.KindFilter(event.KindFoulCommitted)})
	result, err := engine.Run(context.Background(), records, testTeams(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := eventIDs(result.Events)
	if len(got) != 1 || got[0] != "f" {
		t.Fatalf("unexpected events got=%v want=[f]", got)
	}
	if result.Stats.Filtered != 1 {
		t.Fatalf("unexpected filtered count got=%d want=1", result.Stats.Filtered)
	}
	// possession still moved on the filtered pass
	if owner := result.Events[0].Common().BallOwningTeam; owner == nil || owner.ID != "A" {
		t.Fatalf("expected possession A, got %+v", owner)
	}
}

func TestEngineRun_FallbackAndChains(t *testing.T) {
	t.Parallel()

	corner := "1"
	records := []Record[int]{
		{EventID: "start", TypeCode: codeStart, PeriodID: 1, Timestamp: at(0)},
		{EventID: "p", TypeCode: codePass, PeriodID: 1, Timestamp: at(time.Second), TeamRef: "A",
			Qualifiers: RawQualifiers{6: &corner, 5: nil}},
		{EventID: "g", TypeCode: 123, PeriodID: 1, Timestamp: at(2 * time.Second)},
	}

	result, err := newTestEngine(testTables()).Run(context.Background(), records, testTeams(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Events) != 2 {
		t.Fatalf("unexpected event count got=%d want=2", len(result.Events))
	}

	qualifier, ok := result.Events[0].Common().Qualifier(event.QualifierSetPiece)
	if !ok || qualifier.Value != string(event.SetPieceCornerKick) {
		t.Fatalf("expected corner kick qualifier, got %+v", qualifier)
	}

	generic, ok := result.Events[1].(*event.GenericEvent)
	if !ok {
		t.Fatalf("expected generic event, got %T", result.Events[1])
	}
	if generic.Team != nil {
		t.Fatalf("expected nil team for empty ref, got %+v", generic.Team)
	}
}

type countingRecorder struct {
	counts map[Outcome]int
}

func (r *countingRecorder) ObserveRecord(_ event.Provider, outcome Outcome) {
	r.counts[outcome]++
}

func TestEngineRun_RecorderObservesEveryRecord(t *testing.T) {
	t.Parallel()

	recorder := &countingRecorder{counts: map[Outcome]int{}}
	records := []Record[int]{
		{EventID: "start", TypeCode: codeStart, PeriodID: 1, Timestamp: at(0)},
		{EventID: "f", TypeCode: codeFoul, PeriodID: 1, Timestamp: at(time.Second), TeamRef: "A"},
		{EventID: "x", TypeCode: codeEnd, PeriodID: 3, Timestamp: at(time.Minute)},
	}

	_, err := New(testTables(), Config{Recorder: recorder}).Run(context.Background(), records, testTeams(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if recorder.counts[OutcomeMarker] != 1 || recorder.counts[OutcomeEmitted] != 1 || recorder.counts[OutcomeSkipped] != 1 {
		t.Fatalf("unexpected recorder counts: %+v", recorder.counts)
	}
}
