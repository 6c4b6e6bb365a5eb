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

	_ "github.com/jhoicas/fulfillment-planner/docs"
	"github.com/jhoicas/fulfillment-planner/internal/application/catalog"
	"github.com/jhoicas/fulfillment-planner/internal/application/inventory"
	"github.com/jhoicas/fulfillment-planner/internal/application/planning"
	"github.com/jhoicas/fulfillment-planner/internal/application/ports"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
	"github.com/jhoicas/fulfillment-planner/internal/infrastructure/lock"
	"github.com/jhoicas/fulfillment-planner/internal/infrastructure/memory"
	"github.com/jhoicas/fulfillment-planner/internal/infrastructure/metrics"
	"github.com/jhoicas/fulfillment-planner/internal/infrastructure/migration"
	"github.com/jhoicas/fulfillment-planner/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/fulfillment-planner/internal/interfaces/http"
	"github.com/jhoicas/fulfillment-planner/pkg/config"
	"github.com/jhoicas/fulfillment-planner/pkg/logger"
)

// @title                       Fulfillment Planner API
// @version                     1.0
// @description                 Capacidad de tarima, stock entrante y órdenes de trabajo semanales con asignación de faltantes.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
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
	profile := entity.PalletProfile{
		Length:         cfg.Pallet.Length,
		Width:          cfg.Pallet.Width,
		MaxStackHeight: cfg.Pallet.MaxStackHeight,
		MaxWeight:      cfg.Pallet.MaxWeight,
		DeckHeight:     cfg.Pallet.DeckHeight,
		MaxHeight:      cfg.Pallet.MaxHeight,
	}

	// Persistencia: PostgreSQL o store en memoria con datos de ejemplo (APP_ENV=memory).
	var (
		txRunner  ports.TxRunner
		repos     repository.Tx
		storeKind string
		storePing httpRouter.Pinger
	)
	if cfg.App.UsesMemoryStore() {
		store := memory.NewStore()
		store.SeedDemo(time.Now().UTC(), cfg.Planning.WeekStart, profile)
		txRunner, repos, storeKind = store, store.Repos(), "memory"
		log.Warn().Msg("usando store en memoria; los datos se pierden al reiniciar")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		if cfg.DB.Migrate {
			m, err := migration.New(cfg.DB.ConnectionString(), log)
			if err != nil {
				log.Fatal().Err(err).Msg("inicializar migraciones")
			}
			if err := m.Up(); err != nil {
				log.Fatal().Err(err).Msg("aplicar migraciones")
			}
			log.CloseOrWarn(m, "cerrar migrator")
		}
		txRunner, repos, storeKind, storePing = postgres.NewTxRunner(pool), postgres.NewRepositories(pool), "postgres", pool
	}

	// Lock de confirmación / resolución: Redis si está configurado, si no en proceso.
	var (
		locker   ports.Locker = lock.NewMemoryLocker()
		lockKind              = "in-process"
		lockPing httpRouter.Pinger
	)
	if cfg.Redis.Enabled() {
		redisLocker, err := lock.NewRedisLocker(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer log.CloseOrWarn(redisLocker, "cerrar cliente Redis")
		locker, lockKind, lockPing = redisLocker, "redis", redisLocker
	}

	prom := metrics.NewPrometheus()

	palletUC := catalog.NewPalletUseCase(repos.Products(), profile, log)
	incomingUC := inventory.NewIncomingStockUseCase(
		txRunner, repos.IncomingStock(), repos.Products(), repos.Vendors(),
		cfg.Planning.WeekStart, prom, log,
	)
	workOrderUC := planning.NewWorkOrderUseCase(
		txRunner, repos.WorkOrders(), repos.Products(), repos.IncomingStock(), repos.Demand(),
		locker, planning.Config{LockTTL: cfg.Planning.LockTTL, WeekStart: cfg.Planning.WeekStart},
		prom, log,
	)

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
		Title:    "Fulfillment Planner API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		PalletUC:    palletUC,
		IncomingUC:  incomingUC,
		WorkOrderUC: workOrderUC,
		Health:      httpRouter.NewHealthHandler(storeKind, storePing, lockKind, lockPing),
		Metrics:     prom.Handler(),
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
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
