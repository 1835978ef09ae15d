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
	"github.com/jhoicas/warehouse-ops-api/internal/application/auth"
	"github.com/jhoicas/warehouse-ops-api/internal/application/demand"
	"github.com/jhoicas/warehouse-ops-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops-api/internal/application/shipment"
	"github.com/jhoicas/warehouse-ops-api/internal/application/skus"
	"github.com/jhoicas/warehouse-ops-api/internal/infrastructure/notify"
	"github.com/jhoicas/warehouse-ops-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/warehouse-ops-api/internal/interfaces/http"
	"github.com/jhoicas/warehouse-ops-api/pkg/config"
	"github.com/jhoicas/warehouse-ops-api/pkg/logger"
	"github.com/jhoicas/warehouse-ops-api/pkg/taskqueue"
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

	userRepo := postgres.NewUserRepository(pool)
	demandRepo := postgres.NewDemandRepository(pool)
	unitRepo := postgres.NewInventoryUnitRepository(pool)
	shipmentRepo := postgres.NewShipmentRepository(pool)
	skuRepo := postgres.NewSkuMappingRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Notificaciones: SendGrid detrás de una cola asíncrona para no bloquear requests.
	queue := taskqueue.New(cfg.Notify.Workers, 30*time.Second)
	mailNotifier := notify.NewSendGridNotifier(notify.Config{
		APIKey:    cfg.Notify.SendGridAPIKey,
		FromEmail: cfg.Notify.FromEmail,
		FromName:  cfg.Notify.FromName,
		ToEmail:   cfg.Notify.ToEmail,
	}, log)
	asyncNotifier := notify.NewAsyncNotifier(mailNotifier, queue, log)
	defer asyncNotifier.Close()

	demandUC := demand.NewDemandUseCase(demandRepo, unitRepo, asyncNotifier, log)
	shipmentUC := shipment.NewShipmentUseCase(txRunner, shipmentRepo, skuRepo, log)
	inventoryUC := inventory.NewInventoryUseCase(unitRepo)
	repairUC := inventory.NewRepairUseCase(txRunner, log)
	skuUC := skus.NewSkuUseCase(skuRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Pase periódico de reparación de consistencia (opcional por configuración).
	repairCtx, stopRepair := context.WithCancel(ctx)
	defer stopRepair()
	if cfg.Repair.IntervalMinutes > 0 {
		go runRepairLoop(repairCtx, repairUC, time.Duration(cfg.Repair.IntervalMinutes)*time.Minute, log)
	}

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
		Title:    "Warehouse Ops API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		DemandUC:    demandUC,
		ShipmentUC:  shipmentUC,
		InventoryUC: inventoryUC,
		RepairUC:    repairUC,
		SkuUC:       skuUC,
		JWTSecret:   cfg.JWT.Secret,
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
	stopRepair()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// runRepairLoop ejecuta el pase de reparación cada interval hasta que ctx se cancele.
func runRepairLoop(ctx context.Context, repairUC *inventory.RepairUseCase, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := repairUC.Repair(ctx); err != nil {
				log.Error().Err(err).Msg("pase de reparación fallido")
			}
		}
	}
}
