package model

import "github.com/google/uuid"

type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string
	Address string
	Phone   string
	Email   string
}
