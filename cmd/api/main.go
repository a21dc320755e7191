package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/trufas-inventario-api/internal/application/auth"
	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/application/usecase"
	"github.com/jhoicas/trufas-inventario-api/internal/infrastructure/assets"
	"github.com/jhoicas/trufas-inventario-api/internal/infrastructure/audit"
	inframetrics "github.com/jhoicas/trufas-inventario-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/trufas-inventario-api/internal/infrastructure/pdf"
	"github.com/jhoicas/trufas-inventario-api/internal/infrastructure/postgres"
	"github.com/jhoicas/trufas-inventario-api/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/trufas-inventario-api/internal/interfaces/http"
	"github.com/jhoicas/trufas-inventario-api/pkg/config"
	"github.com/jhoicas/trufas-inventario-api/pkg/jwt"
	"github.com/jhoicas/trufas-inventario-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	userRepo := postgres.NewUserRepository(pool)
	auditLogger := audit.NewLogger(postgres.NewAuditLogRepository(pool))

	reg := inframetrics.NewRegistry()
	metrics := inframetrics.NewInventory(reg)

	fsys, err := assets.NewDiskFs(cfg.Assets.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Assets.Dir).Msg("directorio de assets")
	}
	assetGen := assets.NewGenerator(
		fsys,
		cfg.Assets.PublicBaseURL,
		assets.NegotiateLanguage(cfg.Locale.Default, cfg.Locale.Supported),
		infrapdf.NewLabelGenerator(),
	)
	codec := spreadsheet.NewCodec()

	// Libro: único punto que mueve contadores de stock
	ledger := inventory.NewLedger(metrics)

	receiveUC := inventory.NewReceiveUseCase(txRunner, assetGen, ledger, auditLogger, metrics, cfg.Inventory.MaxReceiveBatch)
	statusUC := inventory.NewItemStatusUseCase(txRunner, ledger, auditLogger)
	adjustUC := inventory.NewAdjustUseCase(txRunner, ledger, auditLogger)
	queryUC := inventory.NewStockQueryUseCase(repos, assetGen)
	bulkUC := inventory.NewBulkTransferUseCase(txRunner, repos, codec, assetGen, ledger, auditLogger, metrics)
	reconcileUC := inventory.NewReconcileUseCase(txRunner, repos, auditLogger, metrics)
	orderStockUC := inventory.NewOrderStockUseCase(txRunner, ledger, auditLogger)
	productUC := usecase.NewProductUseCase(repos, txRunner, ledger, auditLogger)
	categoryUC := usecase.NewCategoryUseCase(repos.Categories)

	tokens, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("firmador JWT")
	}
	authUC := auth.NewAuthUseCase(userRepo, tokens)
	if cfg.Bootstrap.AdminEmail != "" {
		if err := authUC.EnsureBootstrapAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("administrador inicial")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		Immutable:    true,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Trufas Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(inframetrics.Handler(reg)))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  productUC,
		CategoryUC: categoryUC,
		Inventory: httpRouter.InventoryUseCases{
			Receive:   receiveUC,
			Status:    statusUC,
			Adjust:    adjustUC,
			Query:     queryUC,
			Bulk:      bulkUC,
			Reconcile: reconcileUC,
		},
		OrderStock: orderStockUC,
		Tokens:     tokens,
	})

	reconcileDone := reconcileUC.StartPeriodic(ctx, cfg.Inventory.ReconcileInterval)

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
	// La conciliación periódica puede seguir registrando auditoría hasta terminar
	<-reconcileDone
	auditLogger.Wait()

	log.Info().Msg("aplicación detenida")
}
