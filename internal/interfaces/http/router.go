package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Restaurante-api/internal/application/auth"
	"github.com/jhoicas/Restaurante-api/internal/application/availability"
	"github.com/jhoicas/Restaurante-api/internal/application/ledger"
	"github.com/jhoicas/Restaurante-api/internal/application/loss"
	"github.com/jhoicas/Restaurante-api/internal/application/purchasing"
	"github.com/jhoicas/Restaurante-api/internal/application/stock"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC        *stock.UseCase
	LedgerUC       *ledger.UseCase
	PurchasingUC   *purchasing.UseCase
	LossUC         *loss.UseCase
	AvailabilityUC *availability.UseCase
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(entity.RoleAdmin)
	compras := RequireRole(entity.RoleAdmin, entity.RoleComprador)
	cocina := RequireRole(entity.RoleAdmin, entity.RoleCocinero)

	// Stock (protegido; lectura para todos los roles autenticados)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.LedgerUC)
	stockGroup.Get("/", stockHandler.List)
	stockGroup.Get("/history", stockHandler.History)
	stockGroup.Post("/", adminOnly, stockHandler.Create)
	stockGroup.Post("/adjust", adminOnly, stockHandler.Adjust)
	stockGroup.Post("/consume", cocina, stockHandler.Consume)
	stockGroup.Get("/:id", stockHandler.GetByID)
	stockGroup.Put("/:id", adminOnly, stockHandler.Update)
	stockGroup.Delete("/:id", adminOnly, stockHandler.Delete)

	// Purchases (protegido; admin y comprador)
	purchases := protected.Group("/purchases", compras)
	purchaseHandler := NewPurchaseHandler(deps.PurchasingUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Get("/:id/slip", purchaseHandler.ReceivingSlip)
	purchases.Post("/:id/approve", adminOnly, purchaseHandler.Approve)
	purchases.Post("/:id/receive", purchaseHandler.Receive)
	purchases.Delete("/:id", purchaseHandler.Delete)

	// Losses (protegido; admin y cocinero)
	losses := protected.Group("/losses", cocina)
	lossHandler := NewLossHandler(deps.LossUC)
	losses.Post("/", lossHandler.Create)
	losses.Get("/", lossHandler.List)
	losses.Delete("/:id", adminOnly, lossHandler.Delete)

	// Dishes (protegido; consultas de disponibilidad y costo)
	dishes := protected.Group("/dishes")
	dishHandler := NewDishHandler(deps.AvailabilityUC)
	dishes.Post("/availability", dishHandler.Availability)
	dishes.Post("/cost", dishHandler.Cost)
}
