// Package statsperform normalizes StatsPerform MA1 lineups and MA3 event
// feeds.
package statsperform

import (
	"context"

	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/pipeline"
	"github.com/riskibarqy/matchfeed/internal/platform/logging"
	"github.com/riskibarqy/matchfeed/internal/provider"
)

// Tables returns the StatsPerform fold configuration.
func Tables() pipeline.Tables[int] {
	return pipeline.Tables[int]{
		Provider:              event.ProviderStatsPerform,
		PeriodStart:           typeStartPeriod,
		PeriodEnd:             typeEndPeriod,
		Possession:            possessionTypes,
		Builders:              builders,
		Fallback:              buildGeneric,
		Chains:                qualifierChains,
		MissingTimestampLevel: logging.LevelDebug,
	}
}

type Deserializer struct {
	engine *pipeline.Engine[int]
	logger *logging.Logger
}

var _ provider.Deserializer = (*Deserializer)(nil)

func New(opts provider.Options) *Deserializer {
	logger := opts.ResolveLogger("statsperform")
	return &Deserializer{
		engine: pipeline.New(Tables(), opts.EngineConfig(logger)),
		logger: logger,
	}
}

func (d *Deserializer) Provider() event.Provider {
	return event.ProviderStatsPerform
}

// Deserialize reads the MA1 document from inputs.Metadata and the MA3 document
// from inputs.Events.
func (d *Deserializer) Deserialize(ctx context.Context, inputs provider.Inputs) (*event.Dataset, error) {
	done := d.logger.Timed(ctx, "load data")
	metadata, err := decodeMetadata(inputs.Metadata)
	if err != nil {
		return nil, err
	}
	events, err := decodeEvents(inputs.Events)
	if err != nil {
		return nil, err
	}
	done()

	defer d.logger.Timed(ctx, "parse data")()

	teams, err := parseTeams(metadata)
	if err != nil {
		return nil, err
	}
	periods := seedPeriods(metadata.LiveData.MatchDetails)
	d.logger.DebugContext(ctx, "seeded periods",
		"result_type", metadata.LiveData.MatchDetails.ResultType,
		"declared", declaredPeriodIDs(metadata.LiveData.MatchDetails),
		"count", len(periods),
	)

	records, err := toRecords(events.LiveData.Event)
	if err != nil {
		return nil, err
	}

	result, err := d.engine.Run(ctx, records, teams, periods)
	if err != nil {
		return nil, err
	}

	system := d.engine.TargetCoordinateSystem()
	return &event.Dataset{
		Metadata: event.Metadata{
			Provider:         event.ProviderStatsPerform,
			Teams:            teams.List(),
			Periods:          result.Periods,
			PitchDimensions:  system.PitchDimensions,
			CoordinateSystem: system,
			Score:            parseScore(metadata.LiveData.MatchDetails),
			Orientation:      event.OrientationActionExecutingTeam,
			Flags:            event.FlagBallOwningTeam,
		},
		Events: result.Events,
		Stats:  result.Stats,
	}, nil
}
