package statsperform

import (
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/pipeline"
	"github.com/riskibarqy/matchfeed/internal/provider"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ma1Document is the MA1 match metadata and lineup document.
type ma1Document struct {
	MatchInfo struct {
		Contestant []ma1Contestant `json:"contestant" validate:"len=2,dive"`
	} `json:"matchInfo"`
	LiveData struct {
		MatchDetails ma1MatchDetails `json:"matchDetails"`
		LineUp       []ma1LineUp     `json:"lineUp" validate:"len=2,dive"`
	} `json:"liveData"`
}

type ma1Contestant struct {
	ID       provider.ID `json:"id" validate:"required"`
	Name     string      `json:"name"`
	Position string      `json:"position" validate:"required"`
}

type ma1MatchDetails struct {
	ResultType string      `json:"resultType"`
	Period     []ma1Period `json:"period"`
	Scores     struct {
		FT *ma1Score `json:"ft"`
	} `json:"scores"`
}

type ma1Period struct {
	ID    int    `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type ma1Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type ma1LineUp struct {
	ContestantID  provider.ID `json:"contestantId"`
	FormationUsed provider.ID `json:"formationUsed"`
	Player        []ma1Player `json:"player" validate:"dive"`
}

type ma1Player struct {
	PlayerID       provider.ID `json:"playerId" validate:"required"`
	FirstName      string      `json:"firstName"`
	LastName       string      `json:"lastName"`
	MatchName      string      `json:"matchName"`
	ShirtNumber    provider.ID `json:"shirtNumber"`
	Position       string      `json:"position"`
	SubPosition    string      `json:"subPosition"`
	FormationPlace provider.ID `json:"formationPlace"`
}

// ma3Document is the MA3 match event document.
type ma3Document struct {
	LiveData struct {
		Event []ma3Event `json:"event"`
	} `json:"liveData"`
}

type ma3Event struct {
	ID           provider.ID    `json:"id"`
	EventID      provider.ID    `json:"eventId,omitempty"`
	TypeID       int            `json:"typeId"`
	PeriodID     int            `json:"periodId"`
	TimeMin      int            `json:"timeMin,omitempty"`
	TimeSec      int            `json:"timeSec,omitempty"`
	ContestantID provider.ID    `json:"contestantId,omitempty"`
	PlayerID     provider.ID    `json:"playerId,omitempty"`
	X            *float64       `json:"x,omitempty"`
	Y            *float64       `json:"y,omitempty"`
	Outcome      int            `json:"outcome"`
	TimeStamp    string         `json:"timeStamp"`
	Qualifier    []ma3Qualifier `json:"qualifier,omitempty"`
}

type ma3Qualifier struct {
	QualifierID int     `json:"qualifierId"`
	Value       *string `json:"value,omitempty"`
}

func decodeMetadata(raw []byte) (ma1Document, error) {
	var doc ma1Document
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return ma1Document{}, pipeline.Wrapf(err, "decode MA1 document")
	}
	if err := validate.Struct(doc); err != nil {
		return ma1Document{}, pipeline.Wrapf(err, "invalid MA1 document")
	}
	return doc, nil
}

func decodeEvents(raw []byte) (ma3Document, error) {
	var doc ma3Document
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return ma3Document{}, pipeline.Wrapf(err, "decode MA3 document")
	}
	return doc, nil
}

// parseTeams builds both sides from the contestants. A lineup is matched by
// contestant id and falls back to the contestant's index.
func parseTeams(doc ma1Document) (pipeline.Teams, error) {
	var teams pipeline.Teams
	for idx, contestant := range doc.MatchInfo.Contestant {
		var ground event.Ground
		switch strings.ToLower(strings.TrimSpace(contestant.Position)) {
		case "home":
			ground = event.GroundHome
		case "away":
			ground = event.GroundAway
		default:
			return pipeline.Teams{}, pipeline.Errorf("Unknown side: %s", contestant.Position)
		}

		lineUp, ok := findLineUp(doc.LiveData.LineUp, contestant.ID, idx)
		if !ok {
			return pipeline.Teams{}, pipeline.Errorf("no lineup for contestant %s", contestant.ID)
		}
		team, err := parseTeam(contestant, lineUp, ground)
		if err != nil {
			return pipeline.Teams{}, err
		}

		if ground == event.GroundHome {
			teams.Home = team
		} else {
			teams.Away = team
		}
	}

	if err := teams.Validate(); err != nil {
		return pipeline.Teams{}, err
	}
	return teams, nil
}

func findLineUp(lineUps []ma1LineUp, contestantID provider.ID, idx int) (ma1LineUp, bool) {
	for _, lineUp := range lineUps {
		if lineUp.ContestantID != "" && lineUp.ContestantID == contestantID {
			return lineUp, true
		}
	}
	if idx < len(lineUps) {
		return lineUps[idx], true
	}
	return ma1LineUp{}, false
}

func parseTeam(contestant ma1Contestant, lineUp ma1LineUp, ground event.Ground) (*event.Team, error) {
	team := &event.Team{
		ID:     contestant.ID.String(),
		Name:   contestant.Name,
		Ground: ground,
	}
	if code := lineUp.FormationUsed.String(); code != "" {
		formation, ok := formations.Lookup(code)
		if !ok {
			return nil, pipeline.Errorf("unknown formation %q for team %s", code, team.ID)
		}
		team.StartingFormation = formation
	}

	team.Players = make([]*event.Player, 0, len(lineUp.Player))
	for _, item := range lineUp.Player {
		jersey, err := strconv.Atoi(item.ShirtNumber.String())
		if err != nil {
			return nil, pipeline.Wrapf(err, "invalid shirt number for player %s", item.PlayerID)
		}

		starting := item.Position != "Substitute"
		position := event.Position{Name: item.SubPosition}
		if starting {
			position = event.Position{ID: item.FormationPlace.String(), Name: item.Position}
		}

		team.Players = append(team.Players, &event.Player{
			ID:        item.PlayerID.String(),
			TeamID:    team.ID,
			FirstName: item.FirstName,
			LastName:  item.LastName,
			Name:      item.MatchName,
			JerseyNo:  jersey,
			Starting:  starting,
			Position:  position,
		})
	}
	return team, nil
}

// parseScore reads the full time score.
func parseScore(details ma1MatchDetails) *event.Score {
	if details.Scores.FT == nil {
		return nil
	}
	// TODO: away score reads ft.home; confirm the source field against a real
	// MA1 feed and switch to ft.away.
	return &event.Score{
		Home: details.Scores.FT.Home,
		Away: details.Scores.FT.Home,
	}
}

// seedPeriods creates every period the match will contain, without
// timestamps. The count comes from the result type and grows to cover any
// period the document declares.
func seedPeriods(details ma1MatchDetails) []*event.Period {
	count := event.PeriodCountForResult(details.ResultType)
	for _, declared := range details.Period {
		if declared.ID > count {
			count = declared.ID
		}
	}
	return event.NewPeriods(count)
}

func toRecords(events []ma3Event) ([]pipeline.Record[int], error) {
	records := make([]pipeline.Record[int], 0, len(events))
	for i := range events {
		raw := &events[i]

		var timestamp *time.Time
		if strings.TrimSpace(raw.TimeStamp) != "" {
			parsed, err := pipeline.ParseTimestamp(raw.TimeStamp)
			if err != nil {
				return nil, err
			}
			timestamp = &parsed
		}

		var coordinates *event.Point
		if raw.X != nil && raw.Y != nil {
			coordinates = &event.Point{X: *raw.X, Y: *raw.Y}
		}

		qualifiers := make(pipeline.RawQualifiers, len(raw.Qualifier))
		for _, qualifier := range raw.Qualifier {
			qualifiers[qualifier.QualifierID] = qualifier.Value
		}

		records = append(records, pipeline.Record[int]{
			EventID:     raw.ID.String(),
			TypeCode:    raw.TypeID,
			PeriodID:    raw.PeriodID,
			Timestamp:   timestamp,
			TeamRef:     raw.ContestantID.String(),
			PlayerRef:   raw.PlayerID.String(),
			Coordinates: coordinates,
			Outcome:     raw.Outcome,
			Qualifiers:  qualifiers,
			Raw:         raw,
		})
	}
	return records, nil
}

// declaredPeriodIDs is used for logging the declared structure.
func declaredPeriodIDs(details ma1MatchDetails) []int {
	out := make([]int, 0, len(details.Period))
	for _, declared := range details.Period {
		out = append(out, declared.ID)
	}
	sort.Ints(out)
	return out
}
