package schedule

import "time"

// Horizon is the inclusive date window a generation run may fill.
type Horizon struct {
	Start time.Time
	End   time.Time
}

func (h Horizon) Empty() bool {
	return h.Start.After(h.End)
}

// ComputeHorizon resolves the effective generation window. The window opens
// at the later of asOf and the contract start, normalized to midnight, and
// covers exactly weeksAhead seven-day weeks (End is the inclusive last day),
// clipped to the contract end date when one is set. An empty window is a
// normal terminal condition, not an error.
func ComputeHorizon(asOf time.Time, weeksAhead int, contractStart time.Time, contractEnd *time.Time) Horizon {
	start := dateOnly(asOf)
	if contractStart.After(asOf) {
		start = dateOnly(contractStart)
	}

	end := start.AddDate(0, 0, weeksAhead*7-1)
	if contractEnd != nil {
		if capped := dateOnly(*contractEnd); capped.Before(end) {
			end = capped
		}
	}

	return Horizon{Start: start, End: end}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
