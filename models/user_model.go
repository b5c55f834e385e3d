package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username       string  `json:"username" gorm:"unique"`
	Password       string  `json:"-"`
	Name           string  `json:"name"`
	Email          string  `json:"email" gorm:"unique"`
	Role           string  `json:"role" gorm:"default:'front_desk'"`
	IsTailor       bool    `json:"is_tailor"`
	CommissionRate float64 `json:"commission_rate"`
	LightspeedId   string  `json:"lightspeed_id" gorm:"index"`
	IsActive       bool    `json:"is_active" gorm:"default:true"`
	CreatedBy      int
	UpdatedBy      int
	DeletedBy      int

	Abilities []TailorAbility  `gorm:"foreignKey:UserId" json:"abilities,omitempty"`
	Schedules []TailorSchedule `gorm:"foreignKey:UserId" json:"schedules,omitempty"`
}
