package routes

import (
	"tailor-app/config"
	"tailor-app/controllers"
	"tailor-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAppointmentRoutes(app *fiber.App, db *gorm.DB) {
	appointmentController := controllers.NewAppointmentController(db)

	api := app.Group(config.MAIN_ROUTES+"/appointments", middleware.AuthMiddleware)
	api.Get("/", appointmentController.GetAllAppointments)
	api.Post("/", appointmentController.CreateAppointment)
	api.Put("/:id", appointmentController.UpdateAppointment)
	api.Delete("/:id", appointmentController.DeleteAppointment)
}
