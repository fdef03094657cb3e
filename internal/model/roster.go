package model

import "time"

// RosterRow is one generated visit as rendered in a roster export.
type RosterRow struct {
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	AssigneeName   *string
	Pay            *float64
	Status         InstanceStatus
	Tasks          []string
}

// RosterWeek groups roster rows by the Monday-anchored week they fall in.
type RosterWeek struct {
	WeekStart time.Time
	Rows      []RosterRow
}

// Roster is the export view of a contract's generated schedule for a period.
type Roster struct {
	Contract    RecurringContract
	Customer    Customer
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalVisits int
	Weeks       []RosterWeek
}
