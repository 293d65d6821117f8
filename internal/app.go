// internal/app.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	router "cryptoex/internal/api"
	"cryptoex/internal/api/handler"
	"cryptoex/internal/config"
	"cryptoex/internal/domain"
	"cryptoex/internal/drift"
	"cryptoex/internal/metrics"
	"cryptoex/internal/repository"
	"cryptoex/internal/repository/sqlstore"
	"cryptoex/internal/service"
	"cryptoex/internal/util"
	"cryptoex/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config  *config.AppConfig
	Logger  *zap.Logger
	DB      *sqlx.DB
	Metrics *metrics.Metrics

	// Repositories
	UserRepository      repository.UserRepository
	WalletRepository    repository.WalletRepository
	CurrencyRepository  repository.CurrencyRepository
	PositionRepository  repository.PositionRepository
	OperationRepository repository.OperationRepository

	// Services
	TradingEngine   *service.TradingEngine
	TradingService  service.TradingService
	ExchangeService service.ExchangeService
	RateDrifter     *drift.RateDrifter

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// DriftConfig converts the loaded drift settings for the rate drifter.
func (app *Application) DriftConfig() drift.Config {
	return drift.Config{
		Interval:      app.Config.Drift.Interval,
		LowerBoundPct: app.Config.Drift.LowerBoundPct,
		UpperBoundPct: app.Config.Drift.UpperBoundPct,
	}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	app.Logger = util.InitLogger(cfg.LogLevel)
	app.Logger.Info("Application configuration loaded successfully.", zap.String("db_driver", cfg.DB.Driver))

	// 3. Connect to Database and apply the schema
	database, err := db.Open(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	if err := db.Migrate(ctx, app.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	app.Logger.Info("Database connection established.")

	// 4. Initialize Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.Metrics = metrics.New(registry)

	// 5. Initialize Repositories
	app.UserRepository = sqlstore.NewUserRepository()
	app.WalletRepository = sqlstore.NewWalletRepository()
	app.CurrencyRepository = sqlstore.NewCurrencyRepository()
	app.PositionRepository = sqlstore.NewPositionRepository()
	app.OperationRepository = sqlstore.NewOperationRepository()
	app.Logger.Info("Repositories initialized.")

	// 6. Initialize Services
	txFuncs := db.DefaultTxFuncs()
	app.TradingEngine = service.NewTradingEngine(
		app.WalletRepository,
		app.PositionRepository,
		app.OperationRepository,
		cfg.Exchange.Commission,
	)
	app.TradingService = service.NewTradingService(
		app.DB, // This is the DBTxBeginner
		app.UserRepository,
		app.WalletRepository,
		app.CurrencyRepository,
		app.TradingEngine,
		app.Metrics,
		app.Logger,
		txFuncs,
	)
	app.ExchangeService = service.NewExchangeService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		service.ExchangeRepositories{
			Users:      app.UserRepository,
			Wallets:    app.WalletRepository,
			Currencies: app.CurrencyRepository,
			Positions:  app.PositionRepository,
			Operations: app.OperationRepository,
		},
		service.RateBounds{Min: cfg.Exchange.MinRate, Max: cfg.Exchange.MaxRate},
		cfg.Exchange.Commission,
		domain.DefaultRandom,
		app.Logger,
		txFuncs,
	)
	app.RateDrifter = drift.NewRateDrifter(
		app.DB,
		app.CurrencyRepository,
		app.DriftConfig(),
		domain.DefaultRandom,
		app.Metrics,
		app.Logger,
		txFuncs,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	exchangeHandler := handler.NewExchangeHandler(app.ExchangeService, app.TradingService, app.Logger)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	app.HTTPHandler = router.NewRouter(exchangeHandler, metricsHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// StartBackground starts the rate drifter when it is enabled.
func (app *Application) StartBackground(ctx context.Context) error {
	if !app.Config.Drift.Enabled {
		app.Logger.Info("Rate drift disabled by configuration.")
		return nil
	}
	return app.RateDrifter.Start(ctx, app.DriftConfig())
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.RateDrifter != nil {
		app.RateDrifter.Stop()
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", zap.Error(err))
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	_ = app.Logger.Sync()
	return nil
}
