package event

import (
	"strings"
	"time"
)

type Provider string

const (
	ProviderStatsPerform Provider = "statsperform"
	ProviderUEFA         Provider = "uefa"
)

func ParseProvider(raw string) (Provider, bool) {
	switch Provider(strings.ToLower(strings.TrimSpace(raw))) {
	case ProviderStatsPerform, "opta":
		return ProviderStatsPerform, true
	case ProviderUEFA:
		return ProviderUEFA, true
	default:
		return "", false
	}
}

type Ground string

const (
	GroundHome Ground = "HOME"
	GroundAway Ground = "AWAY"
)

type BallState string

const (
	BallStateAlive BallState = "ALIVE"
	BallStateDead  BallState = "DEAD"
)

// Point is a location in the provider's percentage pitch units.
type Point struct {
	X float64
	Y float64
}

// Mirror reflects the point through the pitch center.
func (p Point) Mirror() Point {
	return Point{X: 100 - p.X, Y: 100 - p.Y}
}

// Period is one phase of a match. Start and end are filled in as markers are
// discovered, so the same pointer is shared by every event inside the period.
type Period struct {
	ID             int
	StartTimestamp *time.Time
	EndTimestamp   *time.Time
}

func (p *Period) Started() bool {
	return p != nil && p.StartTimestamp != nil
}

// PeriodCountForResult maps a declared match result type to the number of
// periods the match will contain.
func PeriodCountForResult(resultType string) int {
	switch strings.ToLower(strings.TrimSpace(resultType)) {
	case "afterextratime":
		return 4
	case "penaltyshootout":
		return 5
	default:
		return 2
	}
}

// NewPeriods builds periods 1..n with no timestamps.
func NewPeriods(n int) []*Period {
	out := make([]*Period, 0, n)
	for id := 1; id <= n; id++ {
		out = append(out, &Period{ID: id})
	}
	return out
}

type Position struct {
	ID   string
	Name string
}

type Player struct {
	ID        string
	TeamID    string
	FirstName string
	LastName  string
	Name      string
	JerseyNo  int
	Starting  bool
	Position  Position
}

func (p *Player) FullName() string {
	if p == nil {
		return ""
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Team struct {
	ID                string
	Name              string
	Ground            Ground
	StartingFormation FormationType
	Players           []*Player
}

func (t *Team) PlayerByID(id string) *Player {
	if t == nil || id == "" {
		return nil
	}
	for _, player := range t.Players {
		if player.ID == id {
			return player
		}
	}
	return nil
}

type Score struct {
	Home int
	Away int
}

type Orientation string

const OrientationActionExecutingTeam Orientation = "ACTION_EXECUTING_TEAM"

type DatasetFlag uint8

const (
	FlagBallOwningTeam DatasetFlag = 1 << iota
	FlagBallState
)

func (f DatasetFlag) Has(flag DatasetFlag) bool {
	return f&flag == flag
}

type Metadata struct {
	Provider         Provider
	Teams            []*Team
	Periods          []*Period
	PitchDimensions  PitchDimensions
	CoordinateSystem CoordinateSystem
	Score            *Score
	Orientation      Orientation
	Flags            DatasetFlag
}

// FoldStats counts what happened to each feed record during one run.
type FoldStats struct {
	Records  int
	Emitted  int
	Markers  int
	Skipped  int
	Filtered int
}

// Dataset is the normalized output of one match.
type Dataset struct {
	Metadata Metadata
	Events   []Event
	Stats    FoldStats
}

func (d *Dataset) CountByKind() map[Kind]int {
	out := make(map[Kind]int)
	if d == nil {
		return out
	}
	for _, item := range d.Events {
		out[item.Kind()]++
	}
	return out
}
