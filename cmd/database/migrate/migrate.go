package migration

import (
	"fmt"
	"log"

	"rail-qr-backend/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Item{}); err != nil {
		log.Fatalf("Error migrating item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.QRScanLog{}); err != nil {
		log.Fatalf("Error migrating scan log database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
