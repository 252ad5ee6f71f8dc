package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Restaurante-api/internal/application/auth"
	"github.com/jhoicas/Restaurante-api/internal/application/availability"
	"github.com/jhoicas/Restaurante-api/internal/application/ledger"
	"github.com/jhoicas/Restaurante-api/internal/application/loss"
	"github.com/jhoicas/Restaurante-api/internal/application/purchasing"
	"github.com/jhoicas/Restaurante-api/internal/application/stock"
	infrapdf "github.com/jhoicas/Restaurante-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Restaurante-api/internal/interfaces/http"
	"github.com/jhoicas/Restaurante-api/pkg/config"
	"github.com/jhoicas/Restaurante-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	stockRepo := postgres.NewStockItemRepository(pool)
	entryRepo := postgres.NewLedgerEntryRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	lossRepo := postgres.NewLossRecordRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := ledger.New(txRunner, entryRepo)
	stockUC := stock.New(stockRepo)
	availabilityUC := availability.New(stockRepo)
	lossUC := loss.New(txRunner, lossRepo, ledgerUC)

	// PDF: comprobante de recepción de la orden de compra
	slipGenerator := infrapdf.NewMarotoPDFGenerator()
	purchasingUC := purchasing.New(txRunner, orderRepo, ledgerUC, slipGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:        stockUC,
		LedgerUC:       ledgerUC,
		PurchasingUC:   purchasingUC,
		LossUC:         lossUC,
		AvailabilityUC: availabilityUC,
		AuthUC:         authUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
