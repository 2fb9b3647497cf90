package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lesson-booking/config"
	deliveryHttp "lesson-booking/internal/delivery/http"
	"lesson-booking/internal/delivery/http/handler"
	"lesson-booking/internal/delivery/http/middleware"
	"lesson-booking/internal/domain/gateway"
	"lesson-booking/internal/infrastructure/cache"
	"lesson-booking/internal/infrastructure/calendar"
	"lesson-booking/internal/infrastructure/database"
	"lesson-booking/internal/infrastructure/mail"
	"lesson-booking/internal/infrastructure/messaging"
	"lesson-booking/internal/infrastructure/scheduler"
	"lesson-booking/internal/infrastructure/telemetry"
	"lesson-booking/internal/repository"
	"lesson-booking/internal/service"
	"lesson-booking/internal/usecase"
	"lesson-booking/pkg/clock"
	"lesson-booking/pkg/jwt"
	"lesson-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Scheduler   *scheduler.Scheduler
	Publisher   gateway.EventPublisher

	shutdownTelemetry func(context.Context) error
}

// Load reads the configuration, sets up logging and connects to the database.
// It is enough for the one-shot commands (migrate, seed, notify).
func Load() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg.App.LogLevel)
	log.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connected successfully")

	return &App{Config: cfg, Log: log, DB: db}, nil
}

// New creates a new App instance with every dependency of the HTTP server initialized
func New(ctx context.Context) (*App, error) {
	app, err := Load()
	if err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Setup(ctx, app.Config.Telemetry)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}
	app.shutdownTelemetry = shutdown

	redisClient, err := cache.NewRedisClient(app.Config.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.Log.Info("Redis connected successfully")

	if err := app.initializeServer(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// SeedUsecase builds the usecase behind the seed command.
func (app *App) SeedUsecase() usecase.SeedUsecase {
	return usecase.NewSeedUsecase(
		app.Log,
		repository.NewProviderRepository(app.DB),
		repository.NewWeeklyAvailabilityRepository(app.DB),
		repository.NewLessonTypeRepository(app.DB),
	)
}

// NotificationUsecase builds the reminder and post-session dispatcher.
func (app *App) NotificationUsecase() usecase.NotificationUsecase {
	return usecase.NewNotificationUsecase(
		app.Log,
		repository.NewBookingRepository(app.DB),
		mail.NewNotifier(app.Config.SMTP, app.Log),
		clock.New(),
		app.Config.App.BaseURL,
	)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() error {
	cfg, log, db := app.Config, app.Log, app.DB

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	clk := clock.New()

	// Initialize repositories
	providerRepo := repository.NewProviderRepository(db)
	weeklyRepo := repository.NewWeeklyAvailabilityRepository(db)
	overrideRepo := repository.NewDateOverrideRepository(db)
	lessonTypeRepo := repository.NewLessonTypeRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize outbound gateways
	googleCalendar := calendar.NewGateway(cfg.Google, log)
	notifier := mail.NewNotifier(cfg.SMTP, log)
	app.Publisher = messaging.NewPublisher(cfg.Kafka, log)

	// Initialize services
	auditService := service.NewAuditService(auditLogRepo)
	tokenStore := service.NewTokenStore(app.RedisClient)
	healthService := service.NewCalendarHealthService(app.RedisClient, log)
	cachedCalendar := service.NewCachedCalendarGateway(googleCalendar, app.RedisClient, healthService, cfg.Availability.BusyCacheTTL, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, providerRepo, jwtService, tokenStore, auditService)
	providerUsecase := usecase.NewProviderUsecase(log, providerRepo, weeklyRepo, overrideRepo, lessonTypeRepo, auditService, clk)
	availabilityUsecase := usecase.NewAvailabilityUsecase(log, providerRepo, weeklyRepo, overrideRepo, lessonTypeRepo, bookingRepo, cachedCalendar, clk, cfg.Availability.RangeDays)
	bookingUsecase := usecase.NewBookingUsecase(log, providerRepo, weeklyRepo, overrideRepo, lessonTypeRepo, bookingRepo, cachedCalendar, notifier, app.Publisher, auditService, clk, cfg.App.BaseURL)
	// The status probe must see the live calendar, not the busy cache.
	calendarUsecase := usecase.NewCalendarUsecase(log, providerRepo, googleCalendar, healthService, jwtService, auditService, clk)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditLogRepo)
	notificationUsecase := usecase.NewNotificationUsecase(log, bookingRepo, notifier, clk, cfg.App.BaseURL)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:         handler.NewAuthHandler(authUsecase, customValidator),
		Provider:     handler.NewProviderHandler(providerUsecase, customValidator),
		Availability: handler.NewAvailabilityHandler(availabilityUsecase),
		Booking:      handler.NewBookingHandler(bookingUsecase, customValidator),
		Calendar:     handler.NewCalendarHandler(log, calendarUsecase, cfg.App.BaseURL),
		AuditLog:     handler.NewAuditLogHandler(auditLogUsecase),
		Cron:         handler.NewCronHandler(notificationUsecase),
	}

	// Initialize middleware
	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TrustedProxies)
	if err != nil {
		return err
	}
	middlewares := deliveryHttp.Middlewares{
		Auth:        middleware.NewAuthMiddleware(jwtService, tokenStore),
		CORS:        middleware.NewCORSMiddleware(cfg.App.CORSOrigins),
		Logging:     middleware.NewLoggingMiddleware(log),
		RateLimiter: rateLimiter,
	}

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, middlewares, cfg.Cron.Secret, cfg.Telemetry.ServiceName)

	if cfg.Scheduler.Enabled {
		app.Scheduler = scheduler.New(log)
		err := app.Scheduler.Add("notifications", cfg.Scheduler.Spec, func(ctx context.Context) error {
			_, err := notificationUsecase.Run(ctx)
			return err
		})
		if err != nil {
			return err
		}
	}

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	serverErr := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if app.Scheduler != nil {
		app.Scheduler.Start()
	}

	return app.waitForShutdown(serverErr)
}

// waitForShutdown blocks until an interrupt signal is received or the server fails
func (app *App) waitForShutdown(serverErr <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case runErr = <-serverErr:
		app.Log.Errorf("Server failed: %+v", runErr)
	}

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}
	if app.Scheduler != nil {
		app.Scheduler.Stop(ctx)
	}
	if app.shutdownTelemetry != nil {
		if err := app.shutdownTelemetry(ctx); err != nil {
			app.Log.Warnf("Failed to flush traces: %+v", err)
		}
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
	return runErr
}

// Close closes all connections (database, redis, event writer)
func (app *App) Close() {
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Log.Warnf("Failed to close event publisher: %+v", err)
		}
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
