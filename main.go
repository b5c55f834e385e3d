package main

import (
	"fmt"
	"log"
	"tailor-app/config"
	"tailor-app/controllers/idgen"
	"tailor-app/database"
	"tailor-app/notifier"
	"tailor-app/routes"
	"tailor-app/worker"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	mailer := notifier.NewMailer(db)

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app, db)
	routes.SetupAlterationRoutes(app, db, mailer)
	routes.SetupCustomerRoutes(app, db)
	routes.SetupPartyRoutes(app, db)
	routes.SetupAppointmentRoutes(app, db)
	routes.SetupTailorRoutes(app, db)
	routes.SetupDashboardRoutes(app, db)
	routes.SetupCommissionRoutes(app, db)
	routes.SetupReportRoutes(app, db)
	routes.SetupUserRoutes(app, db)

	jobs := worker.New(db, mailer)
	if err := jobs.Start(); err != nil {
		log.Fatalf("Failed to start background worker: %v", err)
	}
	defer jobs.Stop()

	port := config.APP_PORT
	fmt.Println("Server running on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
