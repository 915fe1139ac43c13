package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchfeed/internal/domain/event"
)

// RawQualifiers maps a provider qualifier code to its optional value. A code
// can be present with no value, so presence and value are looked up apart.
type RawQualifiers map[int]*string

func (q RawQualifiers) Has(code int) bool {
	_, ok := q[code]
	return ok
}

// Lookup returns the value of a qualifier. ok is false when the code is
// absent or carries no value.
func (q RawQualifiers) Lookup(code int) (string, bool) {
	value, ok := q[code]
	if !ok || value == nil {
		return "", false
	}
	return *value, true
}

// Float parses a numeric qualifier value. present is false when the code is
// absent or empty.
func (q RawQualifiers) Float(code int) (value float64, present bool, err error) {
	raw, ok := q.Lookup(code)
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, false, nil
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, true, err
	}
	return parsed, true, nil
}

// Record is a provider event projected onto the fields the pipeline reads.
// C is the provider's type code.
type Record[C comparable] struct {
	EventID     string
	TypeCode    C
	PeriodID    int
	Timestamp   *time.Time
	TeamRef     string
	PlayerRef   string
	Coordinates *event.Point
	Outcome     int
	Qualifiers  RawQualifiers
	Raw         any
}

// Teams resolves team references on events to the declared home and away
// sides.
type Teams struct {
	Home *event.Team
	Away *event.Team
}

func (t Teams) List() []*event.Team {
	return []*event.Team{t.Home, t.Away}
}

// Resolve returns nil for an empty reference and fails for a reference that
// matches neither side.
func (t Teams) Resolve(ref string) (*event.Team, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, nil
	}
	if t.Home != nil && t.Home.ID == ref {
		return t.Home, nil
	}
	if t.Away != nil && t.Away.ID == ref {
		return t.Away, nil
	}
	return nil, Errorf("unknown team_id %s", ref)
}

// Validate fails when either side is missing or has no players.
func (t Teams) Validate() error {
	if t.Home == nil || t.Away == nil {
		return Errorf("home and away teams are required")
	}
	if len(t.Home.Players) == 0 || len(t.Away.Players) == 0 {
		return Errorf("LineUp incomplete")
	}
	return nil
}
