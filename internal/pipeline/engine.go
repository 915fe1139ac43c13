package pipeline

import (
	"context"
	"time"

	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/platform/logging"
)

// Builder turns one in-period record into a canonical event. Returning a nil
// event drops the record.
type Builder[C comparable] func(in *BuildInput[C]) (event.Event, error)

// Tables is the provider-specific configuration of the fold.
type Tables[C comparable] struct {
	Provider    event.Provider
	PeriodStart C
	PeriodEnd   C
	// Possession lists the type codes that hand possession to the acting team.
	Possession CodeSet[C]
	Builders   map[C]Builder[C]
	Fallback   Builder[C]
	Chains     ChainSet
	// ReverseOrder is set for feeds published newest first.
	ReverseOrder bool
	// MissingTimestampLevel is the log level used when a record carries no
	// timestamp.
	MissingTimestampLevel logging.Level
}

// BuildInput is everything a builder may read for the current record.
type BuildInput[C comparable] struct {
	Record     Record[C]
	Period     *event.Period
	Team       *event.Team
	Player     *event.Player
	Possession *event.Team
	Qualifiers []event.Qualifier
	Factory    event.Factory
	// Absolute is the event time. Builders may replace it before calling Base.
	Absolute time.Time
}

// Base returns the generic event fields. The relative timestamp is computed
// from Absolute at call time.
func (in *BuildInput[C]) Base() event.Base {
	var coordinates *event.Point
	if in.Record.Coordinates != nil {
		point := *in.Record.Coordinates
		coordinates = &point
	}
	return event.Base{
		EventID:        in.Record.EventID,
		Period:         in.Period,
		Timestamp:      in.Absolute.Sub(*in.Period.StartTimestamp),
		BallOwningTeam: in.Possession,
		BallState:      event.BallStateAlive,
		Team:           in.Team,
		Player:         in.Player,
		Coordinates:    coordinates,
		RawEvent:       in.Record.Raw,
	}
}

// Recorder observes per-record outcomes.
type Recorder interface {
	ObserveRecord(provider event.Provider, outcome Outcome)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRecord(event.Provider, Outcome) {}

type Outcome string

const (
	OutcomeEmitted  Outcome = "emitted"
	OutcomeMarker   Outcome = "period_marker"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFiltered Outcome = "filtered"
)

type Config struct {
	Factory     event.Factory
	Transformer event.Transformer
	Include     event.Predicate
	Logger      *logging.Logger
	Recorder    Recorder
}

type Stats = event.FoldStats

type Result struct {
	Events  []event.Event
	Periods []*event.Period
	Stats   Stats
}

// Engine folds a provider feed into canonical events.
type Engine[C comparable] struct {
	tables      Tables[C]
	factory     event.Factory
	transformer event.Transformer
	include     event.Predicate
	logger      *logging.Logger
	recorder    Recorder
}

func New[C comparable](tables Tables[C], cfg Config) *Engine[C] {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	factory := cfg.Factory
	if factory == nil {
		factory = event.NewDefaultFactory()
	}
	transformer := cfg.Transformer
	if transformer == nil {
		transformer = event.NewIdentityTransformer(105, 68)
	}
	include := cfg.Include
	if include == nil {
		include = event.IncludeAll
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if tables.Possession == nil {
		tables.Possession = CodeSet[C]{}
	}

	return &Engine[C]{
		tables:      tables,
		factory:     factory,
		transformer: transformer,
		include:     include,
		logger:      logger.With("provider", string(tables.Provider)),
		recorder:    recorder,
	}
}

// foldState is the accumulator carried from one record to the next.
type foldState struct {
	periods    []*event.Period
	possession *event.Team
}

// Run processes records in feed order (reversed first when the provider
// publishes newest first). periods seeds the tracker and may be nil.
func (e *Engine[C]) Run(ctx context.Context, records []Record[C], teams Teams, periods []*event.Period) (Result, error) {
	ctx, span := startSpan(ctx, "pipeline.Engine.Run")
	defer span.End()

	state := foldState{periods: periods}
	result := Result{Events: make([]event.Event, 0, len(records))}

	for i := range records {
		idx := i
		if e.tables.ReverseOrder {
			idx = len(records) - 1 - i
		}

		var (
			built   event.Event
			outcome Outcome
			err     error
		)
		state, built, outcome, err = e.step(ctx, state, records[idx], teams)
		if err != nil {
			span.RecordError(err)
			return Result{}, err
		}

		result.Stats.Records++
		e.recorder.ObserveRecord(e.tables.Provider, outcome)
		switch outcome {
		case OutcomeEmitted:
			result.Stats.Emitted++
			result.Events = append(result.Events, built)
		case OutcomeMarker:
			result.Stats.Markers++
		case OutcomeFiltered:
			result.Stats.Filtered++
		default:
			result.Stats.Skipped++
		}
	}

	result.Periods = state.periods
	return result, nil
}

func (e *Engine[C]) step(ctx context.Context, state foldState, rec Record[C], teams Teams) (foldState, event.Event, Outcome, error) {
	if rec.Timestamp == nil {
		e.logAt(ctx, e.tables.MissingTimestampLevel, "skipping event without timestamp", "event_id", rec.EventID)
		return state, nil, OutcomeSkipped, nil
	}
	at := *rec.Timestamp

	switch rec.TypeCode {
	case e.tables.PeriodStart:
		var period *event.Period
		state.periods, period = openPeriod(state.periods, rec.PeriodID, at)
		e.logger.DebugContext(ctx, "set start of period", "period_id", period.ID, "timestamp", at)
		return state, nil, OutcomeMarker, nil
	case e.tables.PeriodEnd:
		if _, ok := closePeriod(state.periods, rec.PeriodID, at); !ok {
			e.logger.DebugContext(ctx, "end marker for unknown period", "period_id", rec.PeriodID, "event_id", rec.EventID)
			return state, nil, OutcomeSkipped, nil
		}
		e.logger.DebugContext(ctx, "set end of period", "period_id", rec.PeriodID, "timestamp", at)
		return state, nil, OutcomeMarker, nil
	}

	period := findPeriod(state.periods, rec.PeriodID)
	if period == nil {
		e.logger.DebugContext(ctx, "skipping event because period doesn't match", "event_id", rec.EventID, "period_id", rec.PeriodID)
		return state, nil, OutcomeSkipped, nil
	}
	if !period.Started() {
		e.logger.DebugContext(ctx, "skipping event because period has not started", "event_id", rec.EventID, "period_id", rec.PeriodID)
		return state, nil, OutcomeSkipped, nil
	}

	team, err := teams.Resolve(rec.TeamRef)
	if err != nil {
		return state, nil, "", err
	}
	var player *event.Player
	if team != nil {
		player = team.PlayerByID(rec.PlayerRef)
	}

	state.possession = nextPossession(state.possession, e.tables.Possession, rec.TypeCode, team)

	builder, ok := e.tables.Builders[rec.TypeCode]
	if !ok {
		builder = e.tables.Fallback
	}
	if builder == nil {
		return state, nil, OutcomeSkipped, nil
	}

	in := &BuildInput[C]{
		Record:     rec,
		Period:     period,
		Team:       team,
		Player:     player,
		Possession: state.possession,
		Qualifiers: e.tables.Chains.Evaluate(rec.Qualifiers),
		Factory:    e.factory,
		Absolute:   at,
	}
	built, err := builder(in)
	if err != nil {
		return state, nil, "", Wrapf(err, "build event %s", rec.EventID)
	}
	if built == nil {
		return state, nil, OutcomeSkipped, nil
	}
	if !e.include(built) {
		return state, nil, OutcomeFiltered, nil
	}

	return state, e.transformer.TransformEvent(built), OutcomeEmitted, nil
}

// TargetCoordinateSystem reports the coordinate system events are emitted in.
func (e *Engine[C]) TargetCoordinateSystem() event.CoordinateSystem {
	return e.transformer.TargetCoordinateSystem()
}

func (e *Engine[C]) logAt(ctx context.Context, level logging.Level, msg string, args ...any) {
	switch level {
	case logging.LevelWarn:
		e.logger.WarnContext(ctx, msg, args...)
	case logging.LevelInfo:
		e.logger.InfoContext(ctx, msg, args...)
	default:
		e.logger.DebugContext(ctx, msg, args...)
	}
}
