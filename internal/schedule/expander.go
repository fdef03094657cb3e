package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tidyhaus/scheduling-service/internal/model"
)

// DefaultWeeksAhead is the lookahead used when a request does not set one.
const DefaultWeeksAhead = 4

// ErrNoSchedulePattern is returned when a contract has zero usable
// schedule-day patterns. This is a caller-facing validation error raised
// before expansion begins, not a silent empty result.
var ErrNoSchedulePattern = errors.New("contract has no usable schedule days")

// Request carries per-run generation options. An explicit AssigneeID
// bypasses rotation entirely; an explicit Pay bypasses the estimator.
type Request struct {
	AsOf                   time.Time
	WeeksAhead             int
	AssigneeID             *uuid.UUID
	Pay                    *float64
	DaysOverride           []model.ScheduleDay
	DefaultStartTime       string
	DefaultDurationMinutes int
}

// Draft is one ready-to-persist instance produced by a run. The caller owns
// persistence and transaction boundaries.
type Draft struct {
	ContractID     uuid.UUID
	CustomerID     uuid.UUID
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	AssigneeID     *uuid.UUID
	Pay            *float64
	Tasks          []string
	Status         model.InstanceStatus
}

// SlotWarning records a schedule-day slot that was skipped or degraded
// during a run. Warnings accompany the draft list; they never abort it.
type SlotWarning struct {
	Position int
	Weekday  string
	Reason   string
}

func (w SlotWarning) String() string {
	return fmt.Sprintf("slot %d (%s): %s", w.Position, w.Weekday, w.Reason)
}

type slot struct {
	position int
	weekday  int
	name     string
	hour     int
	minute   int
	duration int
	tasks    []string
}

// Expand walks the horizon week by week and materializes one draft per
// scheduled weekday, skipping dates the index already holds and dates
// claimed earlier in the same run. Drafts are returned in chronological
// order together with any slot warnings collected along the way.
func Expand(contract model.RecurringContract, req Request, index *InstanceIndex) ([]Draft, []SlotWarning, error) {
	days := contract.ScheduleDays
	if len(req.DaysOverride) > 0 {
		days = req.DaysOverride
	}

	slots, warnings := normalizeSlots(days, req)
	if len(slots) == 0 {
		return nil, warnings, ErrNoSchedulePattern
	}

	weeksAhead := req.WeeksAhead
	if weeksAhead <= 0 {
		weeksAhead = DefaultWeeksAhead
	}
	horizon := ComputeHorizon(req.AsOf, weeksAhead, contract.StartDate, contract.EndDate)
	if horizon.Empty() {
		return nil, warnings, nil
	}

	rotator := NewRotator(contract.StaffPool)
	claimed := make(map[string]struct{})
	var drafts []Draft

	for anchor := horizon.Start; !anchor.After(horizon.End); anchor = anchor.AddDate(0, 0, 7) {
		for _, sl := range slots {
			occurrence := NextOccurrenceOnOrAfter(anchor, sl.weekday)
			if occurrence.After(horizon.End) {
				continue
			}
			if index.HasInstanceOn(occurrence) {
				claimed[dateKey(occurrence)] = struct{}{}
				continue
			}
			if _, taken := claimed[dateKey(occurrence)]; taken {
				warnings = append(warnings, SlotWarning{
					Position: sl.position,
					Weekday:  sl.name,
					Reason:   fmt.Sprintf("date %s already claimed by another slot in this run", dateKey(occurrence)),
				})
				continue
			}

			start := occurrence.Add(time.Duration(sl.hour)*time.Hour + time.Duration(sl.minute)*time.Minute)
			assignee := req.AssigneeID
			if assignee == nil {
				assignee = rotator.Next()
			}
			pay := req.Pay
			if pay == nil {
				pay = EstimatePay(contract.HourlyRate, sl.duration)
			}

			drafts = append(drafts, Draft{
				ContractID:     contract.ID,
				CustomerID:     contract.CustomerID,
				ScheduledStart: start,
				ScheduledEnd:   start.Add(time.Duration(sl.duration) * time.Minute),
				AssigneeID:     assignee,
				Pay:            pay,
				Tasks:          SeedTasks(sl.tasks),
				Status:         model.InstanceStatusScheduled,
			})
			claimed[dateKey(occurrence)] = struct{}{}
		}
	}

	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].ScheduledStart.Before(drafts[j].ScheduledStart)
	})
	return drafts, warnings, nil
}

// normalizeSlots validates loosely-typed pattern data into strict slots.
// A malformed slot is dropped with a warning; the run continues with the
// remaining slots.
func normalizeSlots(days []model.ScheduleDay, req Request) ([]slot, []SlotWarning) {
	var slots []slot
	var warnings []SlotWarning

	for i, day := range days {
		position := day.Position
		if position == 0 {
			position = i + 1
		}

		weekday, known := WeekdayNumber(day.Weekday)
		if !known {
			warnings = append(warnings, SlotWarning{
				Position: position,
				Weekday:  day.Weekday,
				Reason:   fmt.Sprintf("unrecognized weekday %q, falling back to monday", day.Weekday),
			})
		}

		startRaw := strings.TrimSpace(day.StartTime)
		if startRaw == "" {
			startRaw = req.DefaultStartTime
		}
		parsed, err := time.Parse("15:04", startRaw)
		if err != nil {
			warnings = append(warnings, SlotWarning{
				Position: position,
				Weekday:  day.Weekday,
				Reason:   fmt.Sprintf("unparseable start time %q, slot skipped", day.StartTime),
			})
			continue
		}

		duration := day.DurationMinutes
		if duration <= 0 {
			duration = req.DefaultDurationMinutes
		}
		if duration <= 0 {
			warnings = append(warnings, SlotWarning{
				Position: position,
				Weekday:  day.Weekday,
				Reason:   fmt.Sprintf("non-positive duration %d, slot skipped", day.DurationMinutes),
			})
			continue
		}

		slots = append(slots, slot{
			position: position,
			weekday:  weekday,
			name:     day.Weekday,
			hour:     parsed.Hour(),
			minute:   parsed.Minute(),
			duration: duration,
			tasks:    day.Tasks,
		})
	}
	return slots, warnings
}
