package uefa

import (
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/pipeline"
	"github.com/riskibarqy/matchfeed/internal/provider"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type lineupDocument struct {
	HomeTeam lineupTeam `json:"homeTeam" validate:"required"`
	AwayTeam lineupTeam `json:"awayTeam" validate:"required"`
}

type lineupTeam struct {
	Team struct {
		ID                provider.ID `json:"id" validate:"required"`
		InternationalName string      `json:"internationalName"`
	} `json:"team"`
	Field []lineupPlayer `json:"field" validate:"dive"`
	Bench []lineupPlayer `json:"bench" validate:"dive"`
}

type lineupPlayer struct {
	JerseyNumber provider.ID `json:"jerseyNumber"`
	Player       struct {
		ID                provider.ID `json:"id" validate:"required"`
		InternationalName string      `json:"internationalName"`
		FieldPosition     string      `json:"fieldPosition"`
	} `json:"player"`
}

type feedEvent struct {
	ID           provider.ID `json:"id"`
	Phase        string      `json:"phase"`
	Type         string      `json:"type"`
	Timestamp    string      `json:"timestamp,omitempty"`
	PrimaryActor *struct {
		Team *struct {
			ID provider.ID `json:"id"`
		} `json:"team,omitempty"`
		Person *struct {
			ID provider.ID `json:"id"`
		} `json:"person,omitempty"`
	} `json:"primaryActor,omitempty"`
	FieldPosition *struct {
		Coordinate struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"coordinate"`
	} `json:"fieldPosition,omitempty"`
}

func decodeLineups(raw []byte) (lineupDocument, error) {
	var doc lineupDocument
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return lineupDocument{}, pipeline.Wrapf(err, "decode lineups document")
	}
	if err := validate.Struct(doc); err != nil {
		return lineupDocument{}, pipeline.Wrapf(err, "invalid lineups document")
	}
	return doc, nil
}

func decodeEvents(raw []byte) ([]feedEvent, error) {
	var events []feedEvent
	if err := sonic.Unmarshal(raw, &events); err != nil {
		return nil, pipeline.Wrapf(err, "decode events document")
	}
	return events, nil
}

func parseTeams(doc lineupDocument) (pipeline.Teams, error) {
	teams := pipeline.Teams{
		Home: parseTeam(doc.HomeTeam, event.GroundHome),
		Away: parseTeam(doc.AwayTeam, event.GroundAway),
	}
	if err := teams.Validate(); err != nil {
		return pipeline.Teams{}, err
	}
	return teams, nil
}

// parseTeam lists field players as starters, then the bench.
func parseTeam(raw lineupTeam, ground event.Ground) *event.Team {
	team := &event.Team{
		ID:     raw.Team.ID.String(),
		Name:   raw.Team.InternationalName,
		Ground: ground,
	}
	team.Players = make([]*event.Player, 0, len(raw.Field)+len(raw.Bench))
	for _, item := range raw.Field {
		team.Players = append(team.Players, parsePlayer(item, team.ID, true))
	}
	for _, item := range raw.Bench {
		team.Players = append(team.Players, parsePlayer(item, team.ID, false))
	}
	return team
}

func parsePlayer(raw lineupPlayer, teamID string, starting bool) *event.Player {
	jersey, _ := raw.JerseyNumber.Int()
	return &event.Player{
		ID:       raw.Player.ID.String(),
		TeamID:   teamID,
		Name:     raw.Player.InternationalName,
		JerseyNo: jersey,
		Starting: starting,
		Position: event.Position{
			ID:   raw.Player.FieldPosition,
			Name: raw.Player.FieldPosition,
		},
	}
}

// toRecords projects the feed in published order. Period markers for a phase
// without a period number are dropped and reported.
func toRecords(events []feedEvent) ([]pipeline.Record[string], []string, error) {
	records := make([]pipeline.Record[string], 0, len(events))
	var dropped []string
	for i := range events {
		raw := &events[i]

		periodID, known := phaseToPeriod[raw.Phase]
		if !known && (raw.Type == typeStartPeriod || raw.Type == typeEndPeriod) {
			dropped = append(dropped, raw.ID.String())
			continue
		}

		var timestamp *time.Time
		if strings.TrimSpace(raw.Timestamp) != "" {
			parsed, err := pipeline.ParseTimestamp(raw.Timestamp)
			if err != nil {
				return nil, nil, err
			}
			timestamp = &parsed
		}

		record := pipeline.Record[string]{
			EventID:   raw.ID.String(),
			TypeCode:  raw.Type,
			PeriodID:  periodID,
			Timestamp: timestamp,
			Raw:       raw,
		}
		if raw.PrimaryActor != nil && raw.PrimaryActor.Team != nil {
			record.TeamRef = raw.PrimaryActor.Team.ID.String()
			if raw.PrimaryActor.Person != nil {
				record.PlayerRef = raw.PrimaryActor.Person.ID.String()
			}
		}
		if raw.FieldPosition != nil {
			record.Coordinates = &event.Point{
				X: raw.FieldPosition.Coordinate.X,
				Y: raw.FieldPosition.Coordinate.Y,
			}
		}
		records = append(records, record)
	}
	return records, dropped, nil
}
