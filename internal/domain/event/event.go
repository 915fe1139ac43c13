package event

import (
	"strings"
	"time"
)

type Kind string

const (
	KindPass            Kind = "PASS"
	KindTakeOn          Kind = "TAKE_ON"
	KindShot            Kind = "SHOT"
	KindCard            Kind = "CARD"
	KindFoulCommitted   Kind = "FOUL_COMMITTED"
	KindBallOut         Kind = "BALL_OUT"
	KindFormationChange Kind = "FORMATION_CHANGE"
	KindRecovery        Kind = "RECOVERY"
	KindGeneric         Kind = "GENERIC"
)

func ParseKind(raw string) (Kind, bool) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	value = strings.NewReplacer(" ", "_", "-", "_").Replace(value)
	switch Kind(value) {
	case KindPass, KindTakeOn, KindShot, KindCard, KindFoulCommitted,
		KindBallOut, KindFormationChange, KindRecovery, KindGeneric:
		return Kind(value), true
	default:
		return "", false
	}
}

type PassResult string

const (
	PassComplete   PassResult = "COMPLETE"
	PassIncomplete PassResult = "INCOMPLETE"
	PassOffside    PassResult = "OFFSIDE"
)

type TakeOnResult string

const (
	TakeOnComplete   TakeOnResult = "COMPLETE"
	TakeOnIncomplete TakeOnResult = "INCOMPLETE"
)

type ShotResult string

const (
	ShotGoal      ShotResult = "GOAL"
	ShotOwnGoal   ShotResult = "OWN_GOAL"
	ShotOffTarget ShotResult = "OFF_TARGET"
)

// Event is a canonical, provider-agnostic match event. The set of
// implementations is closed.
type Event interface {
	Kind() Kind
	Common() *Base
	ResultName() string
	sealed()
}

// Base holds the fields shared by every event kind.
type Base struct {
	EventID        string
	Period         *Period
	Timestamp      time.Duration
	BallOwningTeam *Team
	BallState      BallState
	Team           *Team
	Player         *Player
	Coordinates    *Point
	Qualifiers     []Qualifier
	RawEvent       any
}

func (b *Base) Common() *Base { return b }

func (b *Base) sealed() {}

// Qualifier returns the first attached qualifier of the category.
func (b *Base) Qualifier(category QualifierCategory) (Qualifier, bool) {
	for _, item := range b.Qualifiers {
		if item.Category == category {
			return item, true
		}
	}
	return Qualifier{}, false
}

type PassEvent struct {
	Base
	Result              PassResult
	ReceiverCoordinates *Point
	ReceiverPlayer      *Player
	ReceiveTimestamp    *time.Duration
}

func (e *PassEvent) Kind() Kind         { return KindPass }
func (e *PassEvent) ResultName() string { return string(e.Result) }

type TakeOnEvent struct {
	Base
	Result TakeOnResult
}

func (e *TakeOnEvent) Kind() Kind         { return KindTakeOn }
func (e *TakeOnEvent) ResultName() string { return string(e.Result) }

type ShotEvent struct {
	Base
	Result *ShotResult
}

func (e *ShotEvent) Kind() Kind { return KindShot }
func (e *ShotEvent) ResultName() string {
	if e.Result == nil {
		return ""
	}
	return string(*e.Result)
}

type CardEvent struct {
	Base
	CardType *CardType
}

func (e *CardEvent) Kind() Kind { return KindCard }
func (e *CardEvent) ResultName() string {
	if e.CardType == nil {
		return ""
	}
	return string(*e.CardType)
}

type FoulCommittedEvent struct {
	Base
}

func (e *FoulCommittedEvent) Kind() Kind         { return KindFoulCommitted }
func (e *FoulCommittedEvent) ResultName() string { return "" }

type BallOutEvent struct {
	Base
}

func (e *BallOutEvent) Kind() Kind         { return KindBallOut }
func (e *BallOutEvent) ResultName() string { return "" }

type FormationChangeEvent struct {
	Base
	FormationType FormationType
}

func (e *FormationChangeEvent) Kind() Kind         { return KindFormationChange }
func (e *FormationChangeEvent) ResultName() string { return "" }

type RecoveryEvent struct {
	Base
}

func (e *RecoveryEvent) Kind() Kind         { return KindRecovery }
func (e *RecoveryEvent) ResultName() string { return "" }

// GenericEvent carries events without a dedicated kind. Name is the
// provider's human readable label for the raw type.
type GenericEvent struct {
	Base
	Name string
}

func (e *GenericEvent) Kind() Kind         { return KindGeneric }
func (e *GenericEvent) ResultName() string { return "" }
