package routes

import (
	"rail-qr-backend/internal/api/handlers"
	"rail-qr-backend/internal/middleware"
	"rail-qr-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	ItemHandler     handlers.ItemHandler
	ScanHandler     handlers.ScanHandler
	DocumentHandler handlers.DocumentHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
	QRCodeDir       string
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Items()
	c.GuestRoute()

	// Generated QR PNGs are served straight off disk.
	c.App.Static("/qrcodes", c.QRCodeDir)
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Items() {
	// Printed QR codes resolve without credentials.
	c.App.Get("/api/v1/items/dynamic/:token", c.ScanHandler.ResolveDynamic)

	items := c.App.Group("/api/v1/items", c.Middleware.AuthMiddleware(c.JWTService))

	// Basic CRUD operations
	items.Post("", c.ItemHandler.CreateItem)
	items.Get("", c.Middleware.AdminOnly(), c.ItemHandler.GetItems)
	items.Put("/:id", c.ItemHandler.UpdateItem)
	items.Delete("/:id", c.Middleware.AdminOnly(), c.ItemHandler.DeleteItem)
	items.Post("/:id/image", c.ItemHandler.UploadProductImage)
	items.Get("/:id/scans", c.ScanHandler.GetScanHistory)

	// Token-addressed operations
	items.Get("/by-token/:token", c.ItemHandler.GetItemByToken)
	items.Post("/scan/:token", c.ScanHandler.ScanToken)
	items.Post("/:token/maintenance", c.ItemHandler.AddMaintenance)
	items.Get("/:token/qr", c.ItemHandler.GetItemQR)
	items.Get("/pdf/:token", c.DocumentHandler.DownloadItemPDF)
}
