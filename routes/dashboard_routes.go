package routes

import (
	"tailor-app/config"
	"tailor-app/controllers"
	"tailor-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDashboardRoutes(app *fiber.App, db *gorm.DB) {
	dashboardController := controllers.NewDashboardController(db)

	api := app.Group(config.MAIN_ROUTES+"/dashboard", middleware.AuthMiddleware)
	api.Get("/", dashboardController.GetDashboard)
	api.Get("/leaderboard", dashboardController.GetCommissionLeaderboard)
}
