package statsperform

import (
	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/pipeline"
)

const (
	typeStartPeriod = 32
	typeEndPeriod   = 30

	typePass            = 1
	typeOffsidePass     = 2
	typeTakeOn          = 3
	typeFoulCommitted   = 4
	typeBallOut         = 5
	typeCornerAwarded   = 6
	typeShotMiss        = 13
	typeShotPost        = 14
	typeShotSaved       = 15
	typeShotGoal        = 16
	typeCard            = 17
	typeFormationChange = 40
	typeRecovery        = 49
)

const (
	qualifierGoalKick     = 124
	qualifierFreeKick     = 5
	qualifierThrowIn      = 107
	qualifierCornerKick   = 6
	qualifierPenalty      = 9
	qualifierKickOff      = 279
	qualifierFreeKickShot = 26

	qualifierHeadPass  = 3
	qualifierHead      = 15
	qualifierLeftFoot  = 72
	qualifierRightFoot = 20
	qualifierOtherBody = 21

	qualifierLongBall    = 1
	qualifierCross       = 2
	qualifierThroughBall = 4
	qualifierChipped     = 155
	qualifierLaunch      = 157
	qualifierFlickOn     = 168
	qualifierAssist      = 210
	qualifierAssist2nd   = 218

	qualifierFirstYellow  = 31
	qualifierSecondYellow = 32
	qualifierRed          = 33

	qualifierOwnGoal       = 28
	qualifierGoalTimestamp = 374
	qualifierFormation     = 130
	qualifierPassEndX      = 140
	qualifierPassEndY      = 141
)

// possessionTypes hand the ball to the acting team.
var possessionTypes = pipeline.NewCodeSet(
	typePass,
	typeOffsidePass,
	typeTakeOn,
	typeShotMiss,
	typeShotPost,
	typeShotSaved,
	typeShotGoal,
	typeRecovery,
)

var qualifierChains = pipeline.ChainSet{
	{
		Category: event.QualifierSetPiece,
		Rules: []pipeline.Rule{
			pipeline.R(string(event.SetPieceCornerKick), qualifierCornerKick),
			pipeline.R(string(event.SetPieceFreeKick), qualifierFreeKick, qualifierFreeKickShot),
			pipeline.R(string(event.SetPiecePenalty), qualifierPenalty),
			pipeline.R(string(event.SetPieceThrowIn), qualifierThrowIn),
			pipeline.R(string(event.SetPieceKickOff), qualifierKickOff),
			pipeline.R(string(event.SetPieceGoalKick), qualifierGoalKick),
		},
	},
	{
		Category: event.QualifierBodyPart,
		Rules: []pipeline.Rule{
			pipeline.R(string(event.BodyPartHead), qualifierHeadPass),
			pipeline.R(string(event.BodyPartHead), qualifierHead),
			pipeline.R(string(event.BodyPartLeftFoot), qualifierLeftFoot),
			pipeline.R(string(event.BodyPartRightFoot), qualifierRightFoot),
			pipeline.R(string(event.BodyPartOther), qualifierOtherBody),
		},
	},
	{
		Category: event.QualifierPassType,
		Rules: []pipeline.Rule{
			pipeline.R(string(event.PassTypeCross), qualifierCross),
			pipeline.R(string(event.PassTypeLongBall), qualifierLongBall),
			pipeline.R(string(event.PassTypeChipped), qualifierChipped),
			pipeline.R(string(event.PassTypeThroughBall), qualifierThroughBall),
			pipeline.R(string(event.PassTypeLaunch), qualifierLaunch),
			pipeline.R(string(event.PassTypeFlickOn), qualifierFlickOn),
			pipeline.R(string(event.PassTypeAssist), qualifierAssist),
			pipeline.R(string(event.PassTypeAssist2nd), qualifierAssist2nd),
		},
	},
	{
		Category: event.QualifierCard,
		Rules: []pipeline.Rule{
			pipeline.R(string(event.CardRed), qualifierRed),
			pipeline.R(string(event.CardFirstYellow), qualifierFirstYellow),
			pipeline.R(string(event.CardSecondYellow), qualifierSecondYellow),
		},
	},
}

var eventTypeNames = map[int]string{
	1:  "pass",
	2:  "offside pass",
	3:  "take on",
	4:  "foul",
	5:  "out",
	6:  "corner awarded",
	7:  "tackle",
	8:  "interception",
	9:  "turnover",
	10: "save",
	11: "claim",
	12: "clearance",
	13: "miss",
	14: "post",
	15: "attempt saved",
	16: "goal",
	17: "card",
	18: "player off",
	19: "player on",
	20: "player retired",
	21: "player returns",
	22: "player becomes goalkeeper",
	23: "goalkeeper becomes player",
	24: "condition change",
	25: "official change",
	26: "unknown26",
	27: "start delay",
	28: "end delay",
	29: "unknown29",
	30: "end",
	31: "unknown31",
	32: "start",
	33: "unknown33",
	34: "team set up",
	35: "player changed position",
	36: "player changed jersey number",
	37: "collection end",
	38: "temp_goal",
	39: "temp_attempt",
	40: "formation change",
	41: "punch",
	42: "good skill",
	43: "deleted event",
	44: "aerial",
	45: "challenge",
	46: "unknown46",
	47: "rescinded card",
	48: "unknown46",
	49: "ball recovery",
	50: "dispossessed",
	51: "error",
	52: "keeper pick-up",
	53: "cross not claimed",
	54: "smother",
	55: "offside provoked",
	56: "shield ball opp",
	57: "foul throw in",
	58: "penalty faced",
	59: "keeper sweeper",
	60: "chance missed",
	61: "ball touch",
	62: "unknown62",
	63: "temp_save",
	64: "resume",
	65: "contentious referee decision",
	66: "possession data",
	67: "50/50",
	68: "referee drop ball",
	69: "failed to block",
	70: "injury time announcement",
	71: "coach setup",
	72: "caught offside",
	73: "other ball contact",
	74: "blocked pass",
	75: "delayed start",
	76: "early end",
	77: "player off pitch",
}

func eventTypeName(typeID int) string {
	if name, ok := eventTypeNames[typeID]; ok {
		return name
	}
	return "unknown"
}

var formations = event.FormationTable{
	ByNumber: map[int]event.FormationType{
		2:  event.Formation442,
		3:  event.Formation41212,
		4:  event.Formation433,
		5:  event.Formation451,
		6:  event.Formation4411,
		7:  event.Formation4141,
		8:  event.Formation4231,
		9:  event.Formation4321,
		10: event.Formation532,
		11: event.Formation541,
		12: event.Formation352,
		13: event.Formation343,
		14: event.Formation31312,
		15: event.Formation4222,
		16: event.Formation3511,
		17: event.Formation3421,
		18: event.Formation3412,
		19: event.Formation3142,
		20: event.Formation31213,
		21: event.Formation4132,
		22: event.Formation4240,
		23: event.Formation4312,
		24: event.Formation3241,
		25: event.Formation3331,
	},
	ByShorthand: map[string]event.FormationType{
		"442":   event.Formation442,
		"41212": event.Formation41212,
		"433":   event.Formation433,
		"451":   event.Formation451,
		"4411":  event.Formation4411,
		"4141":  event.Formation4141,
		"4231":  event.Formation4231,
		"4321":  event.Formation4321,
		"532":   event.Formation532,
		"541":   event.Formation541,
		"352":   event.Formation352,
		"343":   event.Formation343,
		"31312": event.Formation31312,
		"4222":  event.Formation4222,
		"3511":  event.Formation3511,
		"3421":  event.Formation3421,
		"3412":  event.Formation3412,
		"3142":  event.Formation3142,
		"31213": event.Formation31213,
		"4132":  event.Formation4132,
		"4240":  event.Formation4240,
		"4312":  event.Formation4312,
		"3241":  event.Formation3241,
		"3331":  event.Formation3331,
	},
}
