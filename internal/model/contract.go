package model

import (
	"time"

	"github.com/google/uuid"
)

// RecurringContract is a standing agreement to perform service on a weekly
// pattern. EndDate is an inclusive upper bound; nil means open-ended.
type RecurringContract struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID   uuid.UUID `gorm:"type:uuid"`
	Title        string
	Description  string
	Frequency    string // informational label, e.g. "weekly"
	StartDate    time.Time
	EndDate      *time.Time
	HourlyRate   *float64
	ScheduleDays []ScheduleDay `gorm:"foreignKey:ContractID"`
	StaffPool    []uuid.UUID   `gorm:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ScheduleDay is one weekly pattern slot of a contract.
type ScheduleDay struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContractID      uuid.UUID `gorm:"type:uuid;index"`
	Position        int
	Weekday         string // english day name, case-insensitive
	StartTime       string // "HH:MM" local time of day
	DurationMinutes int
	Tasks           []string `gorm:"serializer:json"`
}

func (ScheduleDay) TableName() string {
	return "contract_schedule_days"
}

// ContractStaff links a contract to an eligible employee. Position fixes the
// rotation order.
type ContractStaff struct {
	ContractID uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int
}

func (ContractStaff) TableName() string {
	return "contract_staff"
}
