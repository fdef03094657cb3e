package model

import "github.com/google/uuid"

type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string
	Phone    string
	Active   bool
}
