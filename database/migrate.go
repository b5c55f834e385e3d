// database/migrate.go
package database

import (
	"tailor-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Party{},
		&models.PartyMember{},
		&models.Appointment{},
		&models.AlterationJob{},
		&models.AlterationJobPart{},
		&models.AlterationTask{},
		&models.AlterationWorkflowStep{},
		&models.QRScanLog{},
		&models.TailorAbility{},
		&models.TailorSchedule{},
		&models.TaskTypeDefault{},
		&models.Commission{},
	)
}
