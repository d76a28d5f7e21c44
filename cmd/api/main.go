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
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/VentasCampo-api/internal/application/fulfillment"
	"github.com/jhoicas/VentasCampo-api/internal/application/usecase"
	infracache "github.com/jhoicas/VentasCampo-api/internal/infrastructure/cache"
	"github.com/jhoicas/VentasCampo-api/internal/infrastructure/events"
	"github.com/jhoicas/VentasCampo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/VentasCampo-api/internal/interfaces/http"
	"github.com/jhoicas/VentasCampo-api/pkg/config"
	"github.com/jhoicas/VentasCampo-api/pkg/logger"
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

	orderRepo := postgres.NewOrderRepository(pool)
	ledgerRepo := postgres.NewStockLedgerRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Eventos de pedidos: Kafka si hay brokers configurados, noop en local.
	var publisher fulfillment.EventPublisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error().Err(err).Msg("cierre del productor kafka")
			}
		}()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("productor kafka habilitado")
	}

	// Cache de estado de pedidos: Redis si hay dirección configurada.
	var statusCache fulfillment.StatusCache = infracache.NoopCache{}
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer redisClient.Close()
		statusCache = infracache.NewRedisStatusCache(redisClient, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("cache redis habilitado")
	}

	fulfillmentUC := fulfillment.NewUseCase(
		txRunner, orderRepo, ledgerRepo, customerRepo, userRepo,
		publisher, statusCache,
	)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, ledgerRepo)
	movementUC := usecase.NewMovementUseCase(movementRepo)

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
		Title:    "VentasCampo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		FulfillmentUC: fulfillmentUC,
		WarehouseUC:   warehouseUC,
		MovementUC:    movementUC,
		JWTSecret:     cfg.JWT.Secret,
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
