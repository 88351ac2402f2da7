package main

import (
	"log"

	"rail-qr-backend/cmd/config"
	migration "rail-qr-backend/cmd/database/migrate"
	"rail-qr-backend/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up app: %v", err)
	}

	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
