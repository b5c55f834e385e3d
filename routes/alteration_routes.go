package routes

import (
	"tailor-app/config"
	"tailor-app/controllers"
	"tailor-app/middleware"
	"tailor-app/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAlterationRoutes(app *fiber.App, db *gorm.DB, notifier services.PickupNotifier) {
	alterationController := controllers.NewAlterationController(db, notifier)

	api := app.Group(config.MAIN_ROUTES+"/alterations", middleware.AuthMiddleware)

	api.Post("/", alterationController.CreateJob)
	api.Get("/", alterationController.GetAllJobs)

	// The scan endpoint is the entry point of the physical QR protocol.
	api.Post("/scan", alterationController.Scan)
	api.Get("/scan-logs", alterationController.GetScanLogs)

	api.Get("/:job_id", alterationController.GetJobByID)
	api.Put("/:job_id", alterationController.UpdateJob)
	api.Delete("/:job_id", middleware.RequireRole("admin"), alterationController.DeleteJob)

	api.Post("/:job_id/parts", alterationController.AddPart)
	api.Post("/:job_id/assign", alterationController.AutoAssign)
	api.Put("/:job_id/workflow-steps/:step_id", alterationController.UpdateWorkflowStep)
}
