package models

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	gorm.Model
	CustomerId      uint            `json:"customer_id" gorm:"index"`
	PartyId         *uint           `json:"party_id"`
	Type            AppointmentType `json:"type" gorm:"default:'fitting'"`
	StartsAt        time.Time       `json:"starts_at" gorm:"index"`
	DurationMinutes int             `json:"duration_minutes" gorm:"default:30"`
	Status          string          `json:"status" gorm:"default:'scheduled'"`
	Notes           string          `json:"notes"`
	ReminderSent    bool            `json:"reminder_sent"`
	CreatedBy       int
	UpdatedBy       int
	DeletedBy       int

	Customer *Customer `gorm:"foreignKey:CustomerId" json:"customer,omitempty"`
	Party    *Party    `gorm:"foreignKey:PartyId" json:"party,omitempty"`
}
