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
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	_ "github.com/jhoicas/inventario-ledger/docs"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/observability"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// storage repositorios del backend elegido por STORAGE_DRIVER.
type storage struct {
	txRunner  inventory.TxRunner
	stockRepo repository.StockRepository
	opRepo    repository.StockOperationRepository
	alertRepo repository.StockAlertRepository
	prices    inventory.PriceResolver
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		store, err := memory.NewStore()
		if err != nil {
			return nil, err
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			txRunner:  memory.NewTxRunner(store),
			stockRepo: memory.NewStockRepository(store),
			opRepo:    memory.NewOperationRepository(store),
			alertRepo: memory.NewAlertRepository(store),
			prices:    memory.NewProductRepository(store),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		txRunner:  postgres.NewTxRunner(pool),
		stockRepo: postgres.NewStockRepository(pool),
		opRepo:    postgres.NewOperationRepository(pool),
		alertRepo: postgres.NewAlertRepository(pool),
		prices:    postgres.NewProductRepository(pool),
		close:     pool.Close,
	}, nil
}

// newNotifier publica en Kafka si hay brokers; si no, solo registra las alertas.
func newNotifier(cfg config.KafkaConfig, log zerolog.Logger) (inventory.AlertNotifier, func() error) {
	if !cfg.Enabled() {
		return notify.NewLogNotifier(log), func() error { return nil }
	}
	n := notify.NewKafkaNotifier(notify.NewKafkaWriter(cfg.Brokers, cfg.AlertTopic), log)
	return n, n.Close
}

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
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Otel)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar trazas")
	}

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer st.close()

	zl := log.Zerolog()
	notifier, closeNotifier := newNotifier(cfg.Kafka, zl)
	defer func() {
		if err := closeNotifier(); err != nil {
			log.Error().Err(err).Msg("cerrar notificador")
		}
	}()

	prices, err := cache.NewPriceCache(st.prices, cfg.Cache.PriceSize, cfg.Cache.PriceTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("caché de precios")
	}

	alerts := inventory.NewAlertEngine(st.txRunner, st.alertRepo, notifier, cfg.Ledger.MaxAttempts, zl)
	oplog := inventory.NewOperationLog(st.opRepo)
	ledger := inventory.NewStockLedger(st.txRunner, st.stockRepo, oplog, alerts, inventory.LedgerConfig{
		AutoCreateStock:          cfg.Ledger.AutoCreateStock,
		DefaultLowStockThreshold: cfg.Ledger.DefaultLowStockThreshold,
		DefaultReorderPoint:      cfg.Ledger.DefaultReorderPoint,
		DefaultMaxStock:          cfg.Ledger.DefaultMaxStock,
		MaxAttempts:              cfg.Ledger.MaxAttempts,
	}, zl)
	reservations := inventory.NewReservationManager(ledger, zl)
	summary := inventory.NewSummaryReporter(st.stockRepo, st.alertRepo, prices,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name), zl)

	authUC, err := auth.NewAuthUseCase(cfg.Auth.Clients, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, zl)
	if err != nil {
		log.Fatal().Err(err).Msg("clientes de servicio")
	}
	if len(cfg.Auth.Clients) == 0 {
		log.Warn().Msg("AUTH_CLIENTS vacío: no se pueden emitir tokens")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(zl))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Ledger API",
	}))
	app.Get("/docs/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:       ledger,
		Reservations: reservations,
		OperationLog: oplog,
		Alerts:       alerts,
		Summary:      summary,
		AuthUC:       authUC,
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
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
