package routes

import (
	"tailor-app/config"
	"tailor-app/controllers"
	"tailor-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCustomerRoutes(app *fiber.App, db *gorm.DB) {
	customerController := controllers.NewCustomerController(db)

	api := app.Group(config.MAIN_ROUTES+"/customers", middleware.AuthMiddleware)
	api.Get("/", customerController.GetAllCustomers)
	api.Get("/:id", customerController.GetCustomerByID)
	api.Post("/", customerController.CreateCustomer)
	api.Put("/:id", customerController.UpdateCustomer)
	api.Delete("/:id", middleware.RequireRole("admin"), customerController.DeleteCustomer)
}
