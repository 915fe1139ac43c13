package event

import "time"

// PassAttributes are the pass specific fields handed to a Factory.
type PassAttributes struct {
	Result              PassResult
	ReceiverCoordinates *Point
	ReceiverPlayer      *Player
	ReceiveTimestamp    *time.Duration
}

// Factory constructs canonical events. Deserializers only call these methods
// and never inspect what comes back.
type Factory interface {
	BuildPass(base Base, attrs PassAttributes) Event
	BuildTakeOn(base Base, result TakeOnResult) Event
	BuildShot(base Base, result *ShotResult) Event
	BuildCard(base Base, cardType *CardType) Event
	BuildFoulCommitted(base Base) Event
	BuildBallOut(base Base) Event
	BuildFormationChange(base Base, formation FormationType) Event
	BuildRecovery(base Base) Event
	BuildGeneric(base Base, name string) Event
}

type DefaultFactory struct{}

func NewDefaultFactory() DefaultFactory {
	return DefaultFactory{}
}

func (DefaultFactory) BuildPass(base Base, attrs PassAttributes) Event {
	return &PassEvent{
		Base:                base,
		Result:              attrs.Result,
		ReceiverCoordinates: attrs.ReceiverCoordinates,
		ReceiverPlayer:      attrs.ReceiverPlayer,
		ReceiveTimestamp:    attrs.ReceiveTimestamp,
	}
}

func (DefaultFactory) BuildTakeOn(base Base, result TakeOnResult) Event {
	return &TakeOnEvent{Base: base, Result: result}
}

func (DefaultFactory) BuildShot(base Base, result *ShotResult) Event {
	return &ShotEvent{Base: base, Result: result}
}

func (DefaultFactory) BuildCard(base Base, cardType *CardType) Event {
	return &CardEvent{Base: base, CardType: cardType}
}

func (DefaultFactory) BuildFoulCommitted(base Base) Event {
	return &FoulCommittedEvent{Base: base}
}

func (DefaultFactory) BuildBallOut(base Base) Event {
	return &BallOutEvent{Base: base}
}

func (DefaultFactory) BuildFormationChange(base Base, formation FormationType) Event {
	return &FormationChangeEvent{Base: base, FormationType: formation}
}

func (DefaultFactory) BuildRecovery(base Base) Event {
	return &RecoveryEvent{Base: base}
}

func (DefaultFactory) BuildGeneric(base Base, name string) Event {
	return &GenericEvent{Base: base, Name: name}
}
