package routes

import (
	"tailor-app/config"
	"tailor-app/controllers"
	"tailor-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCommissionRoutes(app *fiber.App, db *gorm.DB) {
	commissionController := controllers.NewCommissionController(db)

	api := app.Group(config.MAIN_ROUTES+"/commissions", middleware.AuthMiddleware)
	api.Get("/", commissionController.GetAllCommissions)
	api.Post("/", middleware.RequireRole("admin"), commissionController.CreateCommission)
	api.Get("/summary", commissionController.GetMonthlySummary)
}
