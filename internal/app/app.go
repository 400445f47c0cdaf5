package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"workshop/internal/api"
	"workshop/internal/bot"
	"workshop/internal/config"
	"workshop/internal/rates"
	"workshop/internal/service"
	"workshop/internal/storage"
	"workshop/internal/storage/ch"
	"workshop/internal/storage/pg"
	"workshop/internal/storage/stubs"
)

// App represents the application
type App struct {
	config   *config.Config
	logger   *zap.Logger
	db       storage.Storage
	ledger   storage.Ledger
	payments *service.PaymentService
	bot      *bot.Bot
	server   *http.Server
}

// New creates and initializes a new application instance
func New(ctx context.Context) (*App, error) {
	// Load .env file if it exists
	envErr := godotenv.Load()

	// Load configuration from environment variables
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg.Development)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if envErr != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	app := &App{config: cfg, logger: logger}

	logger.Info("Starting workshop bot",
		zap.Bool("webhook_mode", cfg.WebhookMode),
		zap.Bool("mock_db", cfg.UseMockDB),
		zap.Bool("ledger", cfg.LedgerEnabled()),
	)

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initLedger(ctx); err != nil {
		app.closeStores()
		return nil, err
	}
	if err := app.initBotAndServer(); err != nil {
		app.closeStores()
		return nil, err
	}

	return app, nil
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// initDatabase initializes the database connection
func (a *App) initDatabase(ctx context.Context) error {
	var db storage.Storage
	if a.config.UseMockDB {
		a.logger.Info("Using mock database")
		db = stubs.NewMockDB()
	} else {
		if a.config.RunMigrations {
			a.logger.Info("Applying PostgreSQL migrations")
			if err := pg.Migrate(ctx, a.config.DatabaseURL); err != nil {
				return err
			}
		}
		postgresDB, err := pg.NewPostgresDB(ctx, a.config.DatabaseURL)
		if err != nil {
			return err
		}
		db = postgresDB
	}

	if err := db.Initialize(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.logger.Info("Database initialized successfully")

	a.db = db
	return nil
}

// initLedger connects the optional ClickHouse ledger
func (a *App) initLedger(ctx context.Context) error {
	if !a.config.LedgerEnabled() {
		return nil
	}
	opts := ch.Options{
		Host:     a.config.ClickHouseHost,
		Port:     a.config.ClickHousePort,
		Database: a.config.ClickHouseDatabase,
		User:     a.config.ClickHouseUser,
		Password: a.config.ClickHousePassword,
		UseTLS:   a.config.ClickHouseUseTLS,
	}
	a.logger.Info("Connecting to ClickHouse ledger",
		zap.String("host", opts.Host),
		zap.Int("port", opts.Port),
		zap.String("database", opts.Database),
		zap.Bool("tls", opts.UseTLS),
	)

	if a.config.RunMigrations {
		if err := ch.Migrate(ctx, opts); err != nil {
			return err
		}
	}
	ledger, err := ch.NewLedger(ctx, opts)
	if err != nil {
		return err
	}
	a.ledger = ledger
	return nil
}

// initBotAndServer wires services, the Telegram bot and the HTTP server
func (a *App) initBotAndServer() error {
	tgAPI, err := bot.NewAPI(a.config.TelegramToken, a.logger)
	if err != nil {
		return err
	}

	numbers := service.NewNumberFormatter(a.config.NumberLocale)
	deps := service.Deps{
		Store:    a.db,
		Notifier: bot.NewNotifier(tgAPI),
		Numbers:  numbers,
		Timeout:  a.config.CallTimeout,
		Logger:   a.logger,
		Ledger:   a.ledger,
	}

	employees := service.NewEmployeeService(deps, a.config.AdminTelegramID)
	dashboard := service.NewDashboardService(deps)
	a.payments = service.NewPaymentService(deps, a.config.DefaultCurrency)

	a.bot = bot.NewBot(tgAPI, bot.Dependencies{
		Work:      service.NewWorkService(deps, rates.Default()),
		Orders:    service.NewOrderService(deps),
		Employees: employees,
		Dashboard: dashboard,
		Numbers:   numbers,
		WebAppURL: a.config.WebAppURL,
	}, a.logger)

	server := api.NewServer(api.Dependencies{
		Updates:     a.bot,
		Payments:    a.payments,
		Dashboard:   dashboard,
		Employees:   employees,
		BotToken:    a.config.TelegramToken,
		WebhookMode: a.config.WebhookMode,
		Logger:      a.logger,
	})

	a.server = &http.Server{
		Addr:         ":" + a.config.Port,
		Handler:      server.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the application and blocks until a shutdown signal or a fatal error
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("Starting HTTP server", zap.String("port", a.config.Port))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Start bot in appropriate mode
	if a.config.WebhookMode {
		if err := a.bot.StartWebhook(a.config.WebhookURL, bot.WebhookRoute(a.config.TelegramToken)); err != nil {
			_ = a.Shutdown()
			return fmt.Errorf("failed to setup webhook: %w", err)
		}
		a.logger.Info("Webhook configured", zap.String("path_prefix", bot.WebhookPath))
	} else {
		go func() {
			if err := a.bot.Start(ctx); err != nil {
				errCh <- fmt.Errorf("bot polling failed: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down...")
	case runErr = <-errCh:
		a.logger.Error("Application error", zap.Error(runErr))
	}

	if err := a.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	// Let queued updates and payment notifications finish before closing stores
	a.bot.Wait()
	a.payments.Wait()

	err := a.closeStores()
	a.logger.Info("Shutdown complete")
	_ = a.logger.Sync()
	return err
}

func (a *App) closeStores() error {
	var errs []error
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close ledger: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Logger exposes the application logger to the entrypoints
func (a *App) Logger() *zap.Logger {
	return a.logger
}

