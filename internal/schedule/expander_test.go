package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tidyhaus/scheduling-service/internal/model"
)

// 2024-01-01 is a Monday.
var mondayStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testContract() model.RecurringContract {
	rate := 15.00
	return model.RecurringContract{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Title:      "Office weekly clean",
		StartDate:  mondayStart,
		HourlyRate: &rate,
		ScheduleDays: []model.ScheduleDay{
			{
				Position:        1,
				Weekday:         "monday",
				StartTime:       "09:00",
				DurationMinutes: 120,
				Tasks:           []string{"vacuum", "mop floors"},
			},
		},
		StaffPool: []uuid.UUID{uuid.New(), uuid.New()},
	}
}

func testRequest() Request {
	return Request{
		AsOf:       mondayStart,
		WeeksAhead: 2,
	}
}

func emptyIndex() *InstanceIndex {
	return NewInstanceIndex(nil)
}

func TestExpandRotationAndPay(t *testing.T) {
	contract := testContract()
	drafts, warnings, err := Expand(contract, testRequest(), emptyIndex())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}

	first, second := drafts[0], drafts[1]
	wantFirst := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	if !first.ScheduledStart.Equal(wantFirst) {
		t.Fatalf("first start = %v, want %v", first.ScheduledStart, wantFirst)
	}
	if got := second.ScheduledStart.Sub(first.ScheduledStart); got != 7*24*time.Hour {
		t.Fatalf("drafts %v apart, want one week", got)
	}
	if !first.ScheduledEnd.Equal(first.ScheduledStart.Add(2 * time.Hour)) {
		t.Fatalf("end = %v, want start + 120m", first.ScheduledEnd)
	}

	if first.AssigneeID == nil || *first.AssigneeID != contract.StaffPool[0] {
		t.Fatalf("first assignee = %v, want pool[0]", first.AssigneeID)
	}
	if second.AssigneeID == nil || *second.AssigneeID != contract.StaffPool[1] {
		t.Fatalf("second assignee = %v, want pool[1]", second.AssigneeID)
	}

	for _, draft := range drafts {
		if draft.Pay == nil || *draft.Pay != 30.00 {
			t.Fatalf("pay = %v, want 30.00", draft.Pay)
		}
		if draft.Status != model.InstanceStatusScheduled {
			t.Fatalf("status = %q, want scheduled", draft.Status)
		}
		if len(draft.Tasks) != 2 || draft.Tasks[0] != "vacuum" {
			t.Fatalf("tasks = %v, want copied in order", draft.Tasks)
		}
		if draft.ScheduledStart.Weekday() != time.Monday {
			t.Fatalf("draft on %v, want Monday", draft.ScheduledStart.Weekday())
		}
	}
}

func TestExpandClipsToEndDate(t *testing.T) {
	contract := testContract()
	end := mondayStart
	contract.EndDate = &end

	drafts, _, err := Expand(contract, testRequest(), emptyIndex())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}
	if drafts[0].ScheduledStart.Day() != 1 {
		t.Fatalf("draft on %v, want the start monday", drafts[0].ScheduledStart)
	}
}

func TestExpandSkipsExistingInstances(t *testing.T) {
	contract := testContract()
	index := NewInstanceIndex([]model.JobInstance{
		{ScheduledStart: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
	})

	drafts, warnings, err := Expand(contract, testRequest(), index)
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("skipping an existing date should not warn, got %v", warnings)
	}
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}
	if drafts[0].ScheduledStart.Day() != 8 {
		t.Fatalf("draft on %v, want the second monday", drafts[0].ScheduledStart)
	}
}

func TestExpandIdempotentAgainstPopulatedIndex(t *testing.T) {
	contract := testContract()
	drafts, _, err := Expand(contract, testRequest(), emptyIndex())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	persisted := make([]model.JobInstance, 0, len(drafts))
	for _, draft := range drafts {
		persisted = append(persisted, model.JobInstance{ScheduledStart: draft.ScheduledStart})
	}

	again, warnings, err := Expand(contract, testRequest(), NewInstanceIndex(persisted))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second run produced %d drafts, want 0", len(again))
	}
	if len(warnings) != 0 {
		t.Fatalf("second run warned: %v", warnings)
	}
}

func TestExpandNoDuplicateDates(t *testing.T) {
	contract := testContract()
	contract.ScheduleDays = append(contract.ScheduleDays, model.ScheduleDay{
		Position:        2,
		Weekday:         "friday",
		StartTime:       "14:00",
		DurationMinutes: 60,
	})
	req := testRequest()
	req.WeeksAhead = 4

	drafts, _, err := Expand(contract, req, emptyIndex())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}

	seen := make(map[string]struct{})
	for _, draft := range drafts {
		key := draft.ScheduledStart.Format("2006-01-02")
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate date %s in output", key)
		}
		seen[key] = struct{}{}
	}
	if len(drafts) != 8 {
		t.Fatalf("got %d drafts, want 8 (two slots over four weeks)", len(drafts))
	}
}

func TestExpandOutputChronological(t *testing.T) {
	contract := testContract()
	// Friday listed before Monday to force out-of-order generation.
	contract.ScheduleDays = []model.ScheduleDay{
		{Position: 1, Weekday: "friday", StartTime: "10:00", DurationMinutes: 60},
		{Position: 2, Weekday: "monday", StartTime: "09:00", DurationMinutes: 60},
	}

	drafts, _, err := Expand(contract, testRequest(), emptyIndex())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	for i := 1; i < len(drafts); i++ {
		if drafts[i].ScheduledStart.Before(drafts[i-1].ScheduledStart) {
			t.Fatalf("drafts out of order at %d: %v before %v", i, drafts[i].ScheduledStart, drafts[i-1].ScheduledStart)
		}
	}
}

func TestExpandWindowRespected(t *testing.T) {
	contract := testContract()
	end := mondayStart.AddDate(0, 0, 20)
	contract.EndDate = &end
	req := testRequest()
	req.WeeksAhead = 8

	drafts, _, err := Expand(contract, req, emptyIndex())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	for _, draft := range drafts {
		day := time.Date(draft.ScheduledStart.Year(), draft.ScheduledStart.Month(), draft.ScheduledStart.Day(), 0, 0, 0, 0, time.UTC)
		if day.Before(contract.StartDate) {
			t.Fatalf("draft %v precedes contract start", day)
		}
		if day.After(end) {
			t.Fatalf("draft %v follows contract end %v", day, end)
		}
	}
}

func TestExpandSameWeekdaySlotsWarnAndSkip(t *testing.T) {
	contract := testContract()
	contract.ScheduleDays = append(contract.ScheduleDays, model.ScheduleDay{
		Position:        2,
		Weekday:         "monday",
		StartTime:       "15:00",
		DurationMinutes: 60,
	})

	drafts, warnings, err := Expand(contract, testRequest(), emptyIndex())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2 (one per monday)", len(drafts))
	}
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2 (second slot skipped each week)", len(warnings))
	}
	for _, draft := range drafts {
		if draft.ScheduledStart.Hour() != 9 {
			t.Fatalf("draft at %v, want the first slot's 09:00", draft.ScheduledStart)
		}
	}
}

func TestExpandSkipsMalformedSlots(t *testing.T) {
	contract := testContract()
	contract.ScheduleDays = append(contract.ScheduleDays,
		model.ScheduleDay{Position: 2, Weekday: "tuesday", StartTime: "25:99", DurationMinutes: 60},
		model.ScheduleDay{Position: 3, Weekday: "wednesday", StartTime: "10:00", DurationMinutes: -30},
	)

	drafts, warnings, err := Expand(contract, testRequest(), emptyIndex())
	if err != nil {
		t.Fatalf("a contract with one good slot must still expand: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2 from the valid monday slot", len(drafts))
	}
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2 (bad time, bad duration)", len(warnings))
	}
}

func TestExpandUnrecognizedWeekdayFallsBackWithWarning(t *testing.T) {
	contract := testContract()
	contract.ScheduleDays = []model.ScheduleDay{
		{Position: 1, Weekday: "mondey", StartTime: "09:00", DurationMinutes: 60},
	}

	drafts, warnings, err := Expand(contract, testRequest(), emptyIndex())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2 (fallback monday over two weeks)", len(drafts))
	}
	for _, draft := range drafts {
		if draft.ScheduledStart.Weekday() != time.Monday {
			t.Fatalf("fallback draft on %v, want Monday", draft.ScheduledStart.Weekday())
		}
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1 for the fallback", len(warnings))
	}
}

func TestExpandNoUsablePattern(t *testing.T) {
	contract := testContract()
	contract.ScheduleDays = nil
	if _, _, err := Expand(contract, testRequest(), emptyIndex()); !errors.Is(err, ErrNoSchedulePattern) {
		t.Fatalf("empty pattern err = %v, want ErrNoSchedulePattern", err)
	}

	contract.ScheduleDays = []model.ScheduleDay{
		{Position: 1, Weekday: "monday", StartTime: "bad", DurationMinutes: 60},
	}
	_, warnings, err := Expand(contract, testRequest(), emptyIndex())
	if !errors.Is(err, ErrNoSchedulePattern) {
		t.Fatalf("all-malformed pattern err = %v, want ErrNoSchedulePattern", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1 explaining the skip", len(warnings))
	}
}

func TestExpandEmptyWindowIsNotAnError(t *testing.T) {
	contract := testContract()
	end := mondayStart.AddDate(0, 0, 6)
	contract.EndDate = &end

	req := testRequest()
	req.AsOf = mondayStart.AddDate(0, 1, 0)

	drafts, warnings, err := Expand(contract, req, emptyIndex())
	if err != nil {
		t.Fatalf("empty window must not error, got %v", err)
	}
	if len(drafts) != 0 || len(warnings) != 0 {
		t.Fatalf("empty window produced %d drafts, %d warnings", len(drafts), len(warnings))
	}
}

func TestExpandAssigneeOverrideBypassesRotation(t *testing.T) {
	contract := testContract()
	override := uuid.New()
	req := testRequest()
	req.AssigneeID = &override
	req.WeeksAhead = 3

	drafts, _, err := Expand(contract, req, emptyIndex())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	for _, draft := range drafts {
		if draft.AssigneeID == nil || *draft.AssigneeID != override {
			t.Fatalf("assignee = %v, want override %v on every draft", draft.AssigneeID, override)
		}
	}
}

func TestExpandEmptyPoolLeavesUnassigned(t *testing.T) {
	contract := testContract()
	contract.StaffPool = nil
	contract.HourlyRate = nil

	drafts, _, err := Expand(contract, testRequest(), emptyIndex())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	for _, draft := range drafts {
		if draft.AssigneeID != nil {
			t.Fatalf("assignee = %v, want nil with empty pool", draft.AssigneeID)
		}
		if draft.Pay != nil {
			t.Fatalf("pay = %v, want nil without hourly rate", *draft.Pay)
		}
	}
}

func TestExpandRequestDefaultsFillMissingFields(t *testing.T) {
	contract := testContract()
	contract.ScheduleDays = []model.ScheduleDay{
		{Position: 1, Weekday: "monday"},
	}
	req := testRequest()
	req.DefaultStartTime = "08:30"
	req.DefaultDurationMinutes = 90

	drafts, warnings, err := Expand(contract, req, emptyIndex())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("defaults should prevent warnings, got %v", warnings)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}
	first := drafts[0]
	if first.ScheduledStart.Hour() != 8 || first.ScheduledStart.Minute() != 30 {
		t.Fatalf("start = %v, want 08:30 default", first.ScheduledStart)
	}
	if got := first.ScheduledEnd.Sub(first.ScheduledStart); got != 90*time.Minute {
		t.Fatalf("duration = %v, want default 90m", got)
	}
}

func TestExpandScheduleDayOverride(t *testing.T) {
	contract := testContract()
	req := testRequest()
	req.DaysOverride = []model.ScheduleDay{
		{Position: 1, Weekday: "thursday", StartTime: "11:00", DurationMinutes: 45, Tasks: []string{"deep clean"}},
	}

	drafts, _, err := Expand(contract, req, emptyIndex())
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}
	for _, draft := range drafts {
		if draft.ScheduledStart.Weekday() != time.Thursday {
			t.Fatalf("override ignored, draft on %v", draft.ScheduledStart.Weekday())
		}
		if len(draft.Tasks) != 1 || draft.Tasks[0] != "deep clean" {
			t.Fatalf("tasks = %v, want override tasks", draft.Tasks)
		}
	}
}
