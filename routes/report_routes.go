package routes

import (
	"tailor-app/config"
	"tailor-app/controllers"
	"tailor-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReportRoutes(app *fiber.App, db *gorm.DB) {
	reportController := controllers.NewReportController(db)

	api := app.Group(config.MAIN_ROUTES+"/reports", middleware.AuthMiddleware)
	api.Get("/jobs/export", reportController.ExportJobs)
	api.Get("/commissions/export", reportController.ExportCommissions)
}
