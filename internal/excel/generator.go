package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tidyhaus/scheduling-service/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a roster workbook: a summary sheet plus one sheet per
// week in the period.
func (g *Generator) Generate(roster model.Roster) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, roster); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, week := range roster.Weeks {
		sheetName := buildSheetName(week.WeekStart, usedNames)
		usedNames[sheetName] = struct{}{}

		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, err
		}
		if err := g.writeWeek(file, sheetName, week); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, roster model.Roster) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Contract")
	set("B1", roster.Contract.Title)
	set("A2", "Customer")
	set("B2", roster.Customer.Name)
	set("A3", "Period start")
	set("B3", formatDate(roster.PeriodStart))
	set("A4", "Period end")
	set("B4", formatDate(roster.PeriodEnd))
	set("A5", "Visits")
	set("B5", roster.TotalVisits)
	set("A6", "Estimated pay total")
	set("B6", fmt.Sprintf("%.2f", sumRosterPay(roster)))

	tableRow := 8
	set(fmt.Sprintf("A%d", tableRow), "Week of")
	set(fmt.Sprintf("B%d", tableRow), "Visits")
	set(fmt.Sprintf("C%d", tableRow), "Estimated pay")

	for i, week := range roster.Weeks {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), formatDate(week.WeekStart))
		set(fmt.Sprintf("B%d", row), len(week.Rows))
		set(fmt.Sprintf("C%d", row), fmt.Sprintf("%.2f", sumWeekPay(week)))
	}

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "B", 16)
	_ = file.SetColWidth(sheet, "C", "C", 16)
	return nil
}

func (g *Generator) writeWeek(file *excelize.File, sheet string, week model.RosterWeek) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"Date", "Start", "End", "Assignee", "Pay", "Status", "Tasks"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, row := range week.Rows {
		line := i + 2
		set(fmt.Sprintf("A%d", line), formatDate(row.ScheduledStart))
		set(fmt.Sprintf("B%d", line), row.ScheduledStart.Format("15:04"))
		set(fmt.Sprintf("C%d", line), row.ScheduledEnd.Format("15:04"))
		set(fmt.Sprintf("D%d", line), formatString(row.AssigneeName))
		set(fmt.Sprintf("E%d", line), formatFloat(row.Pay))
		set(fmt.Sprintf("F%d", line), string(row.Status))
		set(fmt.Sprintf("G%d", line), strings.Join(row.Tasks, "; "))
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "C", 10)
	_ = file.SetColWidth(sheet, "D", "D", 28)
	_ = file.SetColWidth(sheet, "E", "F", 12)
	_ = file.SetColWidth(sheet, "G", "G", 60)
	return nil
}

func buildSheetName(weekStart time.Time, used map[string]struct{}) string {
	base := sanitizeSheetName(fmt.Sprintf("Week %s", weekStart.Format("2006-01-02")))
	if len(base) > 31 {
		base = base[:31]
	}

	nameCandidate := base
	counter := 2
	for {
		if _, exists := used[nameCandidate]; !exists {
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		nameCandidate = trimmed + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sheet"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = replacer.Replace(value)
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sheet"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func formatFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *value)
}

func sumWeekPay(week model.RosterWeek) float64 {
	total := 0.0
	for _, row := range week.Rows {
		if row.Pay != nil {
			total += *row.Pay
		}
	}
	return total
}

func sumRosterPay(roster model.Roster) float64 {
	total := 0.0
	for _, week := range roster.Weeks {
		total += sumWeekPay(week)
	}
	return total
}
