package model

import (
	"time"

	"github.com/google/uuid"
)

type InstanceStatus string

const (
	InstanceStatusScheduled InstanceStatus = "scheduled"
	InstanceStatusCompleted InstanceStatus = "completed"
	InstanceStatusCancelled InstanceStatus = "cancelled"
)

// JobInstance is one concrete, dated occurrence of a contract's service.
// At most one instance exists per (contract, calendar date).
type JobInstance struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContractID     uuid.UUID `gorm:"type:uuid;index"`
	CustomerID     uuid.UUID `gorm:"type:uuid"`
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	AssigneeID     *uuid.UUID `gorm:"type:uuid"`
	Pay            *float64
	Status         InstanceStatus
	Tasks          []JobTask `gorm:"foreignKey:InstanceID"`
	CreatedAt      time.Time
}

// JobTask is one task row copied from the schedule-day pattern onto an
// instance, position-ordered.
type JobTask struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	InstanceID uuid.UUID `gorm:"type:uuid;index"`
	Position   int
	Title      string
}
