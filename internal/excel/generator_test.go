package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/tidyhaus/scheduling-service/internal/model"
)

func testRoster() model.Roster {
	pay := 30.00
	assignee := "Anna Ivanova"
	weekStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.Roster{
		Contract:    model.RecurringContract{ID: uuid.New(), Title: "Office weekly clean"},
		Customer:    model.Customer{ID: uuid.New(), Name: "Lakeside Dental"},
		PeriodStart: weekStart,
		PeriodEnd:   weekStart.AddDate(0, 0, 13),
		TotalVisits: 2,
		Weeks: []model.RosterWeek{
			{
				WeekStart: weekStart,
				Rows: []model.RosterRow{
					{
						ScheduledStart: weekStart.Add(9 * time.Hour),
						ScheduledEnd:   weekStart.Add(11 * time.Hour),
						AssigneeName:   &assignee,
						Pay:            &pay,
						Status:         model.InstanceStatusScheduled,
						Tasks:          []string{"vacuum", "mop floors"},
					},
				},
			},
			{
				WeekStart: weekStart.AddDate(0, 0, 7),
				Rows: []model.RosterRow{
					{
						ScheduledStart: weekStart.AddDate(0, 0, 7).Add(9 * time.Hour),
						ScheduledEnd:   weekStart.AddDate(0, 0, 7).Add(11 * time.Hour),
						Pay:            &pay,
						Status:         model.InstanceStatusScheduled,
					},
				},
			},
		},
	}
}

func TestGenerateRosterWorkbook(t *testing.T) {
	content, err := NewGenerator().Generate(testRoster())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) != 3 {
		t.Fatalf("got %d sheets, want summary plus two weeks", len(sheets))
	}
	if sheets[0] != "Summary" {
		t.Fatalf("first sheet = %q, want Summary", sheets[0])
	}

	visits, err := file.GetCellValue("Summary", "B5")
	if err != nil {
		t.Fatalf("read summary cell: %v", err)
	}
	if visits != "2" {
		t.Fatalf("summary visits = %q, want 2", visits)
	}

	assignee, err := file.GetCellValue("Week 2024-01-01", "D2")
	if err != nil {
		t.Fatalf("read week cell: %v", err)
	}
	if assignee != "Anna Ivanova" {
		t.Fatalf("assignee cell = %q, want Anna Ivanova", assignee)
	}

	tasks, err := file.GetCellValue("Week 2024-01-01", "G2")
	if err != nil {
		t.Fatalf("read tasks cell: %v", err)
	}
	if tasks != "vacuum; mop floors" {
		t.Fatalf("tasks cell = %q", tasks)
	}
}
