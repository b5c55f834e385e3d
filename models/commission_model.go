package models

import (
	"time"

	"gorm.io/gorm"
)

// Commission is one commission line for a sales associate, created by the
// POS sales poll or entered manually. PosSaleId keeps the poll idempotent.
type Commission struct {
	gorm.Model
	UserId     uint      `json:"user_id" gorm:"index"`
	PosSaleId  string    `json:"pos_sale_id" gorm:"unique"`
	SaleAmount float64   `json:"sale_amount"`
	Rate       float64   `json:"rate"`
	Amount     float64   `json:"amount"`
	SaleDate   time.Time `json:"sale_date" gorm:"index"`
	Notes      string    `json:"notes"`
	CreatedBy  int
	UpdatedBy  int

	User *User `gorm:"foreignKey:UserId" json:"user,omitempty"`
}
