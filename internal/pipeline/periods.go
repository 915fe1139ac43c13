package pipeline

import (
	"sort"
	"time"

	"github.com/riskibarqy/matchfeed/internal/domain/event"
)

func findPeriod(periods []*event.Period, id int) *event.Period {
	for _, period := range periods {
		if period.ID == id {
			return period
		}
	}
	return nil
}

// openPeriod sets the start of period id, creating the period when the feed
// did not declare it up front. The list stays ordered by id.
func openPeriod(periods []*event.Period, id int, at time.Time) ([]*event.Period, *event.Period) {
	start := at
	if period := findPeriod(periods, id); period != nil {
		period.StartTimestamp = &start
		return periods, period
	}

	period := &event.Period{ID: id, StartTimestamp: &start}
	periods = append(periods, period)
	sort.SliceStable(periods, func(i, j int) bool { return periods[i].ID < periods[j].ID })
	return periods, period
}

// closePeriod sets the end of an existing period. It reports false when the
// period was never created.
func closePeriod(periods []*event.Period, id int, at time.Time) (*event.Period, bool) {
	period := findPeriod(periods, id)
	if period == nil {
		return nil, false
	}
	end := at
	period.EndTimestamp = &end
	return period, true
}
