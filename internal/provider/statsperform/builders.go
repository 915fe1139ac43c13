package statsperform

import (
	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/pipeline"
)

type buildInput = pipeline.BuildInput[int]

var builders = map[int]pipeline.Builder[int]{
	typePass:            buildPass,
	typeOffsidePass:     buildOffsidePass,
	typeTakeOn:          buildTakeOn,
	typeShotMiss:        buildShot,
	typeShotPost:        buildShot,
	typeShotSaved:       buildShot,
	typeShotGoal:        buildShot,
	typeCard:            buildCard,
	typeFoulCommitted:   buildFoulCommitted,
	typeBallOut:         buildBallOut,
	typeCornerAwarded:   buildBallOut,
	typeFormationChange: buildFormationChange,
	typeRecovery:        buildRecovery,
}

func buildPass(in *buildInput) (event.Event, error) {
	result := event.PassIncomplete
	if in.Record.Outcome != 0 {
		result = event.PassComplete
	}
	// Receiver coordinates are read for incomplete passes too; the feed
	// fills 140/141 on both.
	receiver, err := receiverCoordinates(in.Record)
	if err != nil {
		return nil, err
	}

	base := in.Base()
	base.Qualifiers = in.Qualifiers
	return in.Factory.BuildPass(base, event.PassAttributes{
		Result:              result,
		ReceiverCoordinates: receiver,
	}), nil
}

func buildOffsidePass(in *buildInput) (event.Event, error) {
	receiver, err := receiverCoordinates(in.Record)
	if err != nil {
		return nil, err
	}

	base := in.Base()
	base.Qualifiers = in.Qualifiers
	return in.Factory.BuildPass(base, event.PassAttributes{
		Result:              event.PassOffside,
		ReceiverCoordinates: receiver,
	}), nil
}

func buildTakeOn(in *buildInput) (event.Event, error) {
	result := event.TakeOnIncomplete
	if in.Record.Outcome != 0 {
		result = event.TakeOnComplete
	}
	return in.Factory.BuildTakeOn(in.Base(), result), nil
}

func buildShot(in *buildInput) (event.Event, error) {
	var result *event.ShotResult
	ownGoal := false
	if in.Record.TypeCode == typeShotGoal {
		if raw, ok := in.Record.Qualifiers.Lookup(qualifierGoalTimestamp); ok {
			corrected, err := pipeline.ParseSpacedTimestamp(raw)
			if err != nil {
				return nil, err
			}
			in.Absolute = corrected
		}

		value := event.ShotGoal
		if in.Record.Qualifiers.Has(qualifierOwnGoal) {
			value = event.ShotOwnGoal
			ownGoal = true
		}
		result = &value
	}

	base := in.Base()
	base.Qualifiers = in.Qualifiers
	if ownGoal && base.Coordinates != nil {
		mirrored := base.Coordinates.Mirror()
		base.Coordinates = &mirrored
	}
	return in.Factory.BuildShot(base, result), nil
}

func buildCard(in *buildInput) (event.Event, error) {
	var cardType *event.CardType
	for _, qualifier := range in.Qualifiers {
		if qualifier.Category == event.QualifierCard {
			value := event.CardType(qualifier.Value)
			cardType = &value
			break
		}
	}

	base := in.Base()
	base.BallState = event.BallStateDead
	base.Qualifiers = in.Qualifiers
	return in.Factory.BuildCard(base, cardType), nil
}

func buildFoulCommitted(in *buildInput) (event.Event, error) {
	return in.Factory.BuildFoulCommitted(in.Base()), nil
}

func buildBallOut(in *buildInput) (event.Event, error) {
	base := in.Base()
	base.BallState = event.BallStateDead
	return in.Factory.BuildBallOut(base), nil
}

func buildFormationChange(in *buildInput) (event.Event, error) {
	code, _ := in.Record.Qualifiers.Lookup(qualifierFormation)
	formation, ok := formations.Lookup(code)
	if !ok {
		return nil, pipeline.Errorf("unknown formation %q on event %s", code, in.Record.EventID)
	}
	return in.Factory.BuildFormationChange(in.Base(), formation), nil
}

func buildRecovery(in *buildInput) (event.Event, error) {
	return in.Factory.BuildRecovery(in.Base()), nil
}

func buildGeneric(in *buildInput) (event.Event, error) {
	return in.Factory.BuildGeneric(in.Base(), eventTypeName(in.Record.TypeCode)), nil
}

// receiverCoordinates reads the pass end location. A pass without both
// qualifiers has no receiver coordinates.
func receiverCoordinates(rec pipeline.Record[int]) (*event.Point, error) {
	x, okX, err := rec.Qualifiers.Float(qualifierPassEndX)
	if err != nil {
		return nil, pipeline.Wrapf(err, "invalid pass end x on event %s", rec.EventID)
	}
	y, okY, err := rec.Qualifiers.Float(qualifierPassEndY)
	if err != nil {
		return nil, pipeline.Wrapf(err, "invalid pass end y on event %s", rec.EventID)
	}
	if !okX || !okY {
		return nil, nil
	}
	return &event.Point{X: x, Y: y}, nil
}
