package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/julex/internal/config"
	"github.com/example/julex/internal/handlers"
	"github.com/example/julex/internal/middleware"
	"github.com/example/julex/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	emailSender := services.NewEmailCodeSender(cfg.ResendAPIKey, cfg.EmailFrom)
	verification := services.NewVerificationService(db, emailSender, services.PhoneCodeSender{})
	orders := services.NewOrderService(db)
	gateway := services.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	payments := services.NewPaymentService(db, gateway, cfg.RazorpayKeySecret)

	authHandler := handlers.NewAuthHandler(db, cfg)
	verifyHandler := handlers.NewVerifyHandler(verification)
	catalogHandler := handlers.NewCatalogHandler(db)
	orderHandler := handlers.NewOrderHandler(orders)
	paymentHandler := handlers.NewPaymentHandler(payments)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Checkout identity verification
	verify := api.Group("/verify")
	verify.Post("/:channel/send-otp", verifyHandler.SendOTP)
	verify.Post("/:channel/check-otp", verifyHandler.CheckOTP)

	// Catalog
	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/products", catalogHandler.ListProducts)
	api.Get("/products/:id", catalogHandler.GetProduct)

	// Payment confirmation is called back by the processor flow, so it is
	// signature-authenticated rather than token-authenticated.
	api.Post("/payments/verify", paymentHandler.VerifyPayment)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/auth/change-password", authHandler.ChangePassword)

	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)

	protected.Post("/payments/create-order", paymentHandler.CreatePaymentOrder)
}
