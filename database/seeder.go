// database/seeder.go
package database

import (
	"log"
	"tailor-app/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedUserMaster(db)
	SeedTaskTypeDefaults(db)
}

func SeedUserMaster(db *gorm.DB) {
	var existing models.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			hashed, hashErr := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
			if hashErr != nil {
				log.Fatalf("Failed to hash admin password: %v", hashErr)
			}
			admin := models.User{
				Username: "admin",
				Password: string(hashed),
				Name:     "Administrator",
				Email:    "admin@localhost",
				Role:     "admin",
				IsActive: true,
			}
			if err := db.Create(&admin).Error; err != nil {
				log.Fatalf("Failed to create admin user: %v", err)
			}
		} else {
			log.Fatalf("Unexpected DB error: %v", err)
		}
	}
}

func SeedTaskTypeDefaults(db *gorm.DB) {
	defaults := []models.TaskTypeDefault{
		{TaskType: models.TaskAlteration, DefaultMinutes: 60},
		{TaskType: models.TaskButtonWork, DefaultMinutes: 20},
		{TaskType: models.TaskMeasurement, DefaultMinutes: 30},
		{TaskType: models.TaskCustom, DefaultMinutes: 90},
	}

	for _, d := range defaults {
		var existing models.TaskTypeDefault
		if err := db.Where("task_type = ?", d.TaskType).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				db.Create(&d)
			}
		}
	}
}
