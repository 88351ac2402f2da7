package config

import (
	"os"
	"time"

	"rail-qr-backend/internal/api/handlers"
	"rail-qr-backend/internal/api/routes"
	"rail-qr-backend/internal/middleware"
	"rail-qr-backend/internal/utils"
	"rail-qr-backend/internal/utils/mailing"
	"rail-qr-backend/internal/utils/storage"
	"rail-qr-backend/pkg/document"
	"rail-qr-backend/pkg/item"
	"rail-qr-backend/pkg/jwt"
	"rail-qr-backend/pkg/qr"
	"rail-qr-backend/pkg/scan"
	"rail-qr-backend/pkg/token"
	"rail-qr-backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	tokens := token.NewGenerator()
	qrCodeDir := utils.GetConfig("QR_CODE_DIR")
	encoder := qr.NewEncoder(qrCodeDir)
	baseURL := utils.GetConfig("BASE_URL")
	cascadeScans := utils.GetConfig("CASCADE_SCAN_LOGS") == "true"

	// Repository
	userRepository := user.NewUserRepository(db)
	itemRepository := item.NewItemRepository(db)
	scanRepository := scan.NewScanRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, mailing.SMTP{})
	itemService := item.NewItemService(itemRepository, tokens, encoder, s3, baseURL, cascadeScans)
	scanService := scan.NewScanService(scanRepository, itemService)
	documentService := document.NewDocumentService(itemService, scanService, encoder, s3, baseURL)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	itemHandler := handlers.NewItemHandler(itemService, validator)
	scanHandler := handlers.NewScanHandler(scanService, validator)
	documentHandler := handlers.NewDocumentHandler(documentService)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		ItemHandler:     itemHandler,
		ScanHandler:     scanHandler,
		DocumentHandler: documentHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
		QRCodeDir:       qrCodeDir,
	}
	routesConfig.Setup()
	return app, nil
}
