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
	"github.com/jhoicas/Inventario-pos/internal/application/branch"
	"github.com/jhoicas/Inventario-pos/internal/application/cashregister"
	"github.com/jhoicas/Inventario-pos/internal/application/inventory"
	"github.com/jhoicas/Inventario-pos/internal/application/order"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/application/usecase"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/cache"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/seed"
	httpRouter "github.com/jhoicas/Inventario-pos/internal/interfaces/http"
	"github.com/jhoicas/Inventario-pos/migrations"
	"github.com/jhoicas/Inventario-pos/pkg/config"
	"github.com/jhoicas/Inventario-pos/pkg/logger"
)

// txRunner lo satisfacen postgres.TxRunner y memory.TxRunner; cubre los TxRunner de cada caso de uso.
type txRunner interface {
	Run(ctx context.Context, fn func(tx repository.Repos) error) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:        cfg.App.Env,
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var (
		repos repository.Repos
		tx    txRunner
	)
	switch cfg.Store.Driver {
	case "memory":
		store := memory.NewStore()
		repos = store.Repos()
		tx = memory.NewTxRunner(store)
		sum, err := seed.Load(ctx, repos, "demo", time.Now())
		if err != nil {
			log.Fatal().Err(err).Msg("datos de demostración")
		}
		log.Warn().
			Str("company_id", sum.CompanyID).
			Str("register_id", sum.RegisterID).
			Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		applied, err := postgres.Migrate(ctx, pool, migrations.FS)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("files", applied).Msg("migraciones aplicadas")
		repos = postgres.NewRepos(pool)
		tx = postgres.NewTxRunner(pool)
	}

	// Redis es opcional: sin REDIS_ADDR la idempotencia queda solo en la tabla de pedidos.
	var (
		idem      pos.IdempotencyStore = cache.NoopIdempotencyStore{}
		publisher branch.Publisher     = cache.NoopPublisher{}
	)
	if cfg.Redis.Enabled() {
		client, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se continúa sin caché")
		} else {
			defer client.Close()
			idem = cache.NewRedisIdempotencyStore(client)
			publisher = cache.NewRedisPublisher(client)
		}
	}

	branchUC := branch.NewUseCase(tx, repos, publisher, cfg.POS.BackupNotifications, log.Component("branch"))
	checkoutUC := pos.NewCheckoutUseCase(tx, repos, idem, branchUC, cfg.POS.IdempotencyTTL, log.Component("pos"))
	orderUC := order.NewUseCase(tx, repos, log.Component("order"))
	registerUC := cashregister.NewUseCase(tx, repos, log.Component("cashregister"))
	registerMovementUC := inventory.NewRegisterMovementUseCase(tx, repos, log.Component("inventory"))
	replenishmentUC := inventory.NewReplenishmentUseCase(repos)
	warehouseUC := usecase.NewWarehouseUseCase(repos.Warehouses)
	productUC := usecase.NewProductUseCase(repos.Products)
	customerUC := usecase.NewCustomerUseCase(repos.Customers)

	worker := branch.NewEscalationWorker(tx, repos, publisher,
		cfg.POS.EscalationInterval, cfg.POS.EscalationAfter, log.Component("escalation"))
	go worker.Start(ctx)

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
		Title:    "POS Back Office API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC:      warehouseUC,
		ProductUC:        productUC,
		CustomerUC:       customerUC,
		RegisterMovement: registerMovementUC,
		Replenishment:    replenishmentUC,
		Checkout:         checkoutUC,
		OrderUC:          orderUC,
		CashRegisterUC:   registerUC,
		BranchUC:         branchUC,
		JWTSecret:        cfg.JWT.Secret,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
