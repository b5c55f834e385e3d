package routes

import (
	"tailor-app/config"
	"tailor-app/controllers"
	"tailor-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPartyRoutes(app *fiber.App, db *gorm.DB) {
	partyController := controllers.NewPartyController(db)

	api := app.Group(config.MAIN_ROUTES+"/parties", middleware.AuthMiddleware)
	api.Get("/", partyController.GetAllParties)
	api.Get("/:id", partyController.GetPartyByID)
	api.Post("/", partyController.CreateParty)
	api.Put("/:id", partyController.UpdateParty)
	api.Post("/:id/members", partyController.AddMember)
	api.Put("/:id/members/:member_id", partyController.UpdateMember)
	api.Delete("/:id/members/:member_id", partyController.RemoveMember)
}
