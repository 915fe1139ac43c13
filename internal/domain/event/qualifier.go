package event

type QualifierCategory string

const (
	QualifierSetPiece QualifierCategory = "SET_PIECE"
	QualifierBodyPart QualifierCategory = "BODY_PART"
	QualifierPassType QualifierCategory = "PASS_TYPE"
	QualifierCard     QualifierCategory = "CARD"
)

// Qualifier is a categorized semantic attribute of an event. At most one
// qualifier per category is attached to an event.
type Qualifier struct {
	Category QualifierCategory
	Value    string
}

type SetPieceType string

const (
	SetPieceCornerKick SetPieceType = "CORNER_KICK"
	SetPieceFreeKick   SetPieceType = "FREE_KICK"
	SetPiecePenalty    SetPieceType = "PENALTY"
	SetPieceThrowIn    SetPieceType = "THROW_IN"
	SetPieceKickOff    SetPieceType = "KICK_OFF"
	SetPieceGoalKick   SetPieceType = "GOAL_KICK"
)

type BodyPart string

const (
	BodyPartHead      BodyPart = "HEAD"
	BodyPartLeftFoot  BodyPart = "LEFT_FOOT"
	BodyPartRightFoot BodyPart = "RIGHT_FOOT"
	BodyPartOther     BodyPart = "OTHER"
)

type PassType string

const (
	PassTypeCross       PassType = "CROSS"
	PassTypeLongBall    PassType = "LONG_BALL"
	PassTypeChipped     PassType = "CHIPPED_PASS"
	PassTypeThroughBall PassType = "THROUGH_BALL"
	PassTypeLaunch      PassType = "LAUNCH"
	PassTypeFlickOn     PassType = "FLICK_ON"
	PassTypeAssist      PassType = "ASSIST"
	PassTypeAssist2nd   PassType = "ASSIST_2ND"
)

type CardType string

const (
	CardRed          CardType = "RED"
	CardFirstYellow  CardType = "FIRST_YELLOW"
	CardSecondYellow CardType = "SECOND_YELLOW"
)

func SetPieceQualifier(value SetPieceType) Qualifier {
	return Qualifier{Category: QualifierSetPiece, Value: string(value)}
}

func BodyPartQualifier(value BodyPart) Qualifier {
	return Qualifier{Category: QualifierBodyPart, Value: string(value)}
}

func PassQualifier(value PassType) Qualifier {
	return Qualifier{Category: QualifierPassType, Value: string(value)}
}

func CardQualifier(value CardType) Qualifier {
	return Qualifier{Category: QualifierCard, Value: string(value)}
}
