package event

import (
	"strconv"
	"strings"
)

type FormationType string

const (
	Formation442   FormationType = "4-4-2"
	Formation41212 FormationType = "4-1-2-1-2"
	Formation433   FormationType = "4-3-3"
	Formation451   FormationType = "4-5-1"
	Formation4411  FormationType = "4-4-1-1"
	Formation4141  FormationType = "4-1-4-1"
	Formation4231  FormationType = "4-2-3-1"
	Formation4321  FormationType = "4-3-2-1"
	Formation532   FormationType = "5-3-2"
	Formation541   FormationType = "5-4-1"
	Formation352   FormationType = "3-5-2"
	Formation343   FormationType = "3-4-3"
	Formation31312 FormationType = "3-1-3-1-2"
	Formation4222  FormationType = "4-2-2-2"
	Formation3511  FormationType = "3-5-1-1"
	Formation3421  FormationType = "3-4-2-1"
	Formation3412  FormationType = "3-4-1-2"
	Formation3142  FormationType = "3-1-4-2"
	Formation31213 FormationType = "3-1-2-1-3"
	Formation4132  FormationType = "4-1-3-2"
	Formation4240  FormationType = "4-2-4-0"
	Formation4312  FormationType = "4-3-1-2"
	Formation3241  FormationType = "3-2-4-1"
	Formation3331  FormationType = "3-3-3-1"
)

// FormationTable resolves provider formation codes. Numeric codes are tried
// first, then shorthand strings such as "442".
type FormationTable struct {
	ByNumber    map[int]FormationType
	ByShorthand map[string]FormationType
}

func (t FormationTable) Lookup(code string) (FormationType, bool) {
	value := strings.TrimSpace(code)
	if value == "" {
		return "", false
	}
	if n, err := strconv.Atoi(value); err == nil {
		if formation, ok := t.ByNumber[n]; ok {
			return formation, true
		}
	}
	formation, ok := t.ByShorthand[value]
	return formation, ok
}
