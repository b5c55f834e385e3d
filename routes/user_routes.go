package routes

import (
	"tailor-app/config"
	"tailor-app/controllers"
	"tailor-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupUserRoutes(app *fiber.App, db *gorm.DB) {
	userController := controllers.NewUserController(db)

	api := app.Group(config.MAIN_ROUTES+"/users", middleware.AuthMiddleware, middleware.RequireRole("admin"))
	api.Get("/", userController.GetAllUsers)
	api.Get("/:id", userController.GetUserByID)
	api.Post("/", userController.CreateUser)
	api.Put("/:id", userController.UpdateUser)
	api.Delete("/:id", userController.DeleteUser)
}
