// Package uefa normalizes UEFA match lineups and event feeds. The event feed
// is published newest first.
package uefa

import (
	"context"

	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/pipeline"
	"github.com/riskibarqy/matchfeed/internal/platform/logging"
	"github.com/riskibarqy/matchfeed/internal/provider"
)

const (
	typeStartPeriod = "START_PHASE"
	typeEndPeriod   = "END_PHASE"
	typeShotWide    = "SHOT_WIDE"
)

var phaseToPeriod = map[string]int{
	"FIRST_HALF":        1,
	"SECOND_HALF":       2,
	"FIRST_EXTRA_TIME":  3,
	"SECOND_EXTRA_TIME": 4,
	"PENALTY_SHOOTOUT":  5,
}

var builders = map[string]pipeline.Builder[string]{
	typeShotWide: func(in *pipeline.BuildInput[string]) (event.Event, error) {
		result := event.ShotOffTarget
		return in.Factory.BuildShot(in.Base(), &result), nil
	},
}

// buildGeneric labels the event with the raw feed type.
func buildGeneric(in *pipeline.BuildInput[string]) (event.Event, error) {
	return in.Factory.BuildGeneric(in.Base(), in.Record.TypeCode), nil
}

// Tables returns the UEFA fold configuration.
func Tables() pipeline.Tables[string] {
	return pipeline.Tables[string]{
		Provider:              event.ProviderUEFA,
		PeriodStart:           typeStartPeriod,
		PeriodEnd:             typeEndPeriod,
		Possession:            pipeline.NewCodeSet(typeShotWide),
		Builders:              builders,
		Fallback:              buildGeneric,
		ReverseOrder:          true,
		MissingTimestampLevel: logging.LevelWarn,
	}
}

type Deserializer struct {
	engine *pipeline.Engine[string]
	logger *logging.Logger
}

var _ provider.Deserializer = (*Deserializer)(nil)

func New(opts provider.Options) *Deserializer {
	logger := opts.ResolveLogger("uefa")
	return &Deserializer{
		engine: pipeline.New(Tables(), opts.EngineConfig(logger)),
		logger: logger,
	}
}

func (d *Deserializer) Provider() event.Provider {
	return event.ProviderUEFA
}

// Deserialize reads the lineups document from inputs.Metadata and the event
// array from inputs.Events.
func (d *Deserializer) Deserialize(ctx context.Context, inputs provider.Inputs) (*event.Dataset, error) {
	done := d.logger.Timed(ctx, "load data")
	lineups, err := decodeLineups(inputs.Metadata)
	if err != nil {
		return nil, err
	}
	events, err := decodeEvents(inputs.Events)
	if err != nil {
		return nil, err
	}
	done()

	defer d.logger.Timed(ctx, "parse data")()

	teams, err := parseTeams(lineups)
	if err != nil {
		return nil, err
	}

	records, dropped, err := toRecords(events)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		d.logger.DebugContext(ctx, "dropped period markers for unmapped phases", "event_ids", dropped)
	}

	result, err := d.engine.Run(ctx, records, teams, nil)
	if err != nil {
		return nil, err
	}

	system := d.engine.TargetCoordinateSystem()
	return &event.Dataset{
		Metadata: event.Metadata{
			Provider:         event.ProviderUEFA,
			Teams:            teams.List(),
			Periods:          result.Periods,
			PitchDimensions:  system.PitchDimensions,
			CoordinateSystem: system,
			Orientation:      event.OrientationActionExecutingTeam,
			Flags:            event.FlagBallOwningTeam | event.FlagBallState,
		},
		Events: result.Events,
		Stats:  result.Stats,
	}, nil
}
