package models

import (
	"time"

	"gorm.io/gorm"
)

// Party is a wedding party: one event, many members, each member a customer.
type Party struct {
	gorm.Model
	Name      string     `json:"name"`
	EventDate *time.Time `json:"event_date"`
	Notes     string     `json:"notes"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int

	Members []PartyMember `gorm:"foreignKey:PartyId;constraint:OnDelete:CASCADE" json:"members"`
}

type PartyMember struct {
	gorm.Model
	PartyId      uint   `json:"party_id" gorm:"index"`
	CustomerId   uint   `json:"customer_id" gorm:"index"`
	MemberRole   string `json:"member_role" gorm:"default:'member'"`
	Measurements string `json:"measurements"`
	Notes        string `json:"notes"`
	CreatedBy    int
	UpdatedBy    int

	Party    *Party    `gorm:"foreignKey:PartyId" json:"party,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerId" json:"customer,omitempty"`
}
