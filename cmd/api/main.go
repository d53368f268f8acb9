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
	"github.com/jcastanov/planta-api/internal/application/bom"
	"github.com/jcastanov/planta-api/internal/application/stock"
	"github.com/jcastanov/planta-api/internal/infrastructure/postgres"
	httpRouter "github.com/jcastanov/planta-api/internal/interfaces/http"
	"github.com/jcastanov/planta-api/pkg/config"
	"github.com/jcastanov/planta-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	// Repositorios de lectura (atados al pool); las escrituras usan el TxRunner.
	movementRepo := postgres.NewMovementRepository(pool)
	bucketRepo := postgres.NewStockBucketRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	bomEdgeRepo := postgres.NewBOMEdgeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	anomalies := stock.NewLogAnomalyReporter(log)
	queryUC := stock.NewQueryUseCase(movementRepo, bucketRepo, itemRepo, anomalies)
	postMovementUC := stock.NewPostMovementUseCase(txRunner, itemRepo, warehouseRepo)
	transferUC := stock.NewTransferUseCase(txRunner, itemRepo, warehouseRepo)
	feasibilityUC := bom.NewFeasibilityUseCase(bomEdgeRepo, itemRepo, queryUC)

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
		Title:    "Planta API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockQuery:   queryUC,
		PostMovement: postMovementUC,
		Transfer:     transferUC,
		Feasibility:  feasibilityUC,
		JWTSecret:    cfg.JWT.Secret,
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
