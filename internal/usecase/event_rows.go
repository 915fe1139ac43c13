package usecase

import (
	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/domain/normalization"
)

// EventRows flattens a dataset into storage rows, one per event, keeping the
// dataset order in Seq.
func EventRows(runID string, dataset *event.Dataset) []normalization.EventRow {
	if dataset == nil {
		return nil
	}

	rows := make([]normalization.EventRow, 0, len(dataset.Events))
	for seq, item := range dataset.Events {
		base := item.Common()
		row := normalization.EventRow{
			RunID:       runID,
			Seq:         seq,
			EventID:     base.EventID,
			Kind:        string(item.Kind()),
			Name:        eventName(item),
			Result:      item.ResultName(),
			TimestampMS: base.Timestamp.Milliseconds(),
			BallState:   string(base.BallState),
		}
		if base.Period != nil {
			row.PeriodID = base.Period.ID
		}
		if base.Team != nil {
			row.TeamID = base.Team.ID
		}
		if base.Player != nil {
			row.PlayerID = base.Player.ID
		}
		if base.BallOwningTeam != nil {
			row.BallOwningTeamID = base.BallOwningTeam.ID
		}
		if base.Coordinates != nil {
			x, y := base.Coordinates.X, base.Coordinates.Y
			row.X, row.Y = &x, &y
		}
		for _, q := range base.Qualifiers {
			row.Qualifiers = append(row.Qualifiers, string(q.Category)+"="+q.Value)
		}
		rows = append(rows, row)
	}
	return rows
}

func eventName(item event.Event) string {
	switch e := item.(type) {
	case *event.GenericEvent:
		return e.Name
	case *event.FormationChangeEvent:
		return string(e.FormationType)
	default:
		return ""
	}
}
