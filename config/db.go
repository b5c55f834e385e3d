package config

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// ConnectDB opens the shop database using the driver selected by DB_DRIVER.
func ConnectDB() (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			DBUser, DBPassword, DBHost, DBPort, DBName)
		dialector = mysql.Open(dsn)
	case "mssql":
		dsn := "sqlserver://" + DBUser + ":" + DBPassword + "@" + DBHost + ":" + DBPort + "?database=" + DBName
		dialector = sqlserver.Open(dsn)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			DBHost, DBUser, DBPassword, DBName, DBPort)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Error().Err(err).Str("driver", DBDriver).Msg("Error connecting to database")
		return nil, err
	}

	log.Info().Str("driver", DBDriver).Str("database", DBName).Msg("Connected to database")
	return db, nil
}
