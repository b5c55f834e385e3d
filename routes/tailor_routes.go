package routes

import (
	"tailor-app/config"
	"tailor-app/controllers"
	"tailor-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupTailorRoutes(app *fiber.App, db *gorm.DB) {
	tailorController := controllers.NewTailorController(db)

	api := app.Group(config.MAIN_ROUTES+"/tailors", middleware.AuthMiddleware)
	api.Get("/", tailorController.GetAllTailors)
	api.Post("/abilities", middleware.RequireRole("admin"), tailorController.SetAbility)
	api.Delete("/abilities/:id", middleware.RequireRole("admin"), tailorController.DeleteAbility)
	api.Post("/schedules", middleware.RequireRole("admin"), tailorController.SetSchedule)
	api.Delete("/schedules/:id", middleware.RequireRole("admin"), tailorController.DeleteSchedule)
}
