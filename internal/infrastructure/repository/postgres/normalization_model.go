package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/matchfeed/internal/domain/normalization"
)

type runTableModel struct {
	ID         string     `db:"id"`
	Provider   string     `db:"provider"`
	MatchKey   string     `db:"match_key"`
	Status     string     `db:"status"`
	Records    int        `db:"records"`
	Emitted    int        `db:"emitted"`
	Markers    int        `db:"markers"`
	Skipped    int        `db:"skipped"`
	Filtered   int        `db:"filtered"`
	Error      *string    `db:"error"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
}

type eventTableModel struct {
	RunID            string         `db:"run_id"`
	Seq              int            `db:"seq"`
	EventID          string         `db:"event_id"`
	Kind             string         `db:"kind"`
	Name             *string        `db:"name"`
	Result           *string        `db:"result"`
	PeriodID         int            `db:"period_id"`
	TimestampMS      int64          `db:"timestamp_ms"`
	TeamID           *string        `db:"team_id"`
	PlayerID         *string        `db:"player_id"`
	BallOwningTeamID *string        `db:"ball_owning_team_id"`
	BallState        *string        `db:"ball_state"`
	X                *float64       `db:"x"`
	Y                *float64       `db:"y"`
	Qualifiers       pq.StringArray `db:"qualifiers"`
}

func runToModel(run normalization.Run) runTableModel {
	return runTableModel{
		ID:         run.ID,
		Provider:   run.Provider,
		MatchKey:   run.MatchKey,
		Status:     string(run.Status),
		Records:    run.Records,
		Emitted:    run.Emitted,
		Markers:    run.Markers,
		Skipped:    run.Skipped,
		Filtered:   run.Filtered,
		Error:      nullableString(run.Error),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}

func runFromModel(row runTableModel) normalization.Run {
	return normalization.Run{
		ID:         row.ID,
		Provider:   row.Provider,
		MatchKey:   row.MatchKey,
		Status:     normalization.RunStatus(row.Status),
		Records:    row.Records,
		Emitted:    row.Emitted,
		Markers:    row.Markers,
		Skipped:    row.Skipped,
		Filtered:   row.Filtered,
		Error:      stringValue(row.Error),
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
	}
}

func eventToModel(row normalization.EventRow) eventTableModel {
	return eventTableModel{
		RunID:            row.RunID,
		Seq:              row.Seq,
		EventID:          row.EventID,
		Kind:             row.Kind,
		Name:             nullableString(row.Name),
		Result:           nullableString(row.Result),
		PeriodID:         row.PeriodID,
		TimestampMS:      row.TimestampMS,
		TeamID:           nullableString(row.TeamID),
		PlayerID:         nullableString(row.PlayerID),
		BallOwningTeamID: nullableString(row.BallOwningTeamID),
		BallState:        nullableString(row.BallState),
		X:                row.X,
		Y:                row.Y,
		Qualifiers:       pq.StringArray(row.Qualifiers),
	}
}

func eventFromModel(row eventTableModel) normalization.EventRow {
	return normalization.EventRow{
		RunID:            row.RunID,
		Seq:              row.Seq,
		EventID:          row.EventID,
		Kind:             row.Kind,
		Name:             stringValue(row.Name),
		Result:           stringValue(row.Result),
		PeriodID:         row.PeriodID,
		TimestampMS:      row.TimestampMS,
		TeamID:           stringValue(row.TeamID),
		PlayerID:         stringValue(row.PlayerID),
		BallOwningTeamID: stringValue(row.BallOwningTeamID),
		BallState:        stringValue(row.BallState),
		X:                row.X,
		Y:                row.Y,
		Qualifiers:       []string(row.Qualifiers),
	}
}
