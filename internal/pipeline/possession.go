package pipeline

import "github.com/riskibarqy/matchfeed/internal/domain/event"

// CodeSet is a set of provider type codes.
type CodeSet[C comparable] map[C]struct{}

func NewCodeSet[C comparable](codes ...C) CodeSet[C] {
	out := make(CodeSet[C], len(codes))
	for _, code := range codes {
		out[code] = struct{}{}
	}
	return out
}

func (s CodeSet[C]) Contains(code C) bool {
	_, ok := s[code]
	return ok
}

// nextPossession hands possession to the acting team when the event type
// transfers possession and keeps the current value otherwise.
func nextPossession[C comparable](current *event.Team, transferring CodeSet[C], code C, actor *event.Team) *event.Team {
	if transferring.Contains(code) {
		return actor
	}
	return current
}
