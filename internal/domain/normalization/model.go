package normalization

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one normalization of one match.
type Run struct {
	ID         string
	Provider   string
	MatchKey   string
	Status     RunStatus
	Records    int
	Emitted    int
	Markers    int
	Skipped    int
	Filtered   int
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// EventRow is the flattened, queryable form of a canonical event.
type EventRow struct {
	RunID            string
	Seq              int
	EventID          string
	Kind             string
	Name             string
	Result           string
	PeriodID         int
	TimestampMS      int64
	TeamID           string
	PlayerID         string
	BallOwningTeamID string
	BallState        string
	X                *float64
	Y                *float64
	Qualifiers       []string
}
