package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"estate_backend/internal/auth"
	"estate_backend/internal/config"
	"estate_backend/internal/email"
	"estate_backend/internal/handlers"
	"estate_backend/internal/logger"
	"estate_backend/internal/middleware"
	"estate_backend/internal/models"
	"estate_backend/internal/realtime"
	"estate_backend/internal/repositories"
	"estate_backend/internal/routes"
	"estate_backend/internal/services"
	"estate_backend/internal/validator"
	"estate_backend/internal/workers"
	"estate_backend/pkg/apperrors"
	"estate_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(cfg.Server.Env == "development")
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := openDatabase(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected")

	if err := models.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Если не удалось создать админа (проблемы с БД и т.д.) - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	if err != nil {
		logger.Fatal("Failed to initialize token manager", "error", err)
	}

	broker, err := newBroker(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize realtime broker", "error", err)
	}
	mailer := newMailer(cfg)

	wsManager := ws.NewWebSocketManager()
	ginRouter, container := SetupRouter(cfg, gormDB, broker, mailer, tokens, wsManager)

	cleanupWorker := workers.NewNotificationCleanupWorker(
		gormDB,
		container.NotificationService,
		cfg.Notifications.CleanupSchedule,
		cfg.Notifications.RetentionDays,
	)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return cleanupWorker.Start(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		wsManager.CloseAll()
		err := srv.Shutdown(shutdownCtx)
		if cerr := broker.Close(); cerr != nil {
			logger.Warn("Failed to close realtime broker", "error", cerr)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("Server stopped with error", "error", err)
	}
	logger.Info("Server stopped")
}

// SetupRouter собирает сервисы, хэндлеры и gin-движок со всеми маршрутами.
// wsManager может быть nil: тогда /ws не регистрируется.
func SetupRouter(
	cfg *config.Config,
	gormDB *gorm.DB,
	broker realtime.Broker,
	mailer email.Provider,
	tokens *auth.TokenManager,
	wsManager *ws.WebSocketManager,
) (*gin.Engine, *services.ServiceContainer) {
	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, broker, mailer)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Инициализируем WebSocket
	var wsHandler *ws.WebSocketHandler
	if wsManager != nil {
		wsHandler = ws.NewWebSocketHandler(wsManager, broker)
	}

	// 4. Инициализируем Gin и делегируем регистрацию маршрутов пакету 'routes'
	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, tokens)

	return ginRouter, serviceContainer
}

func openDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if driver == "sqlite" {
		// SQLite не поддерживает конкурентную запись
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}
	return gormDB, nil
}

func newBroker(cfg *config.Config) (realtime.Broker, error) {
	if !cfg.Redis.Enabled {
		logger.Info("Realtime broker: in-process")
		return realtime.NewLocalBroker(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("Realtime broker: redis", "addr", cfg.Redis.Addr)
	return realtime.NewRedisBroker(rdb), nil
}

func newMailer(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Warn("Email disabled, notification emails are not sent")
		return email.NoopProvider{}
	}
	return email.NewGomailProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, email.NewTemplateManager())
}

func initializeServices(cfg *config.Config, broker realtime.Broker, mailer email.Provider) *services.ServiceContainer {
	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository()
	propertyRepo := repositories.NewPropertyRepository()
	bookingRepo := repositories.NewBookingRepository()
	notificationRepo := repositories.NewNotificationRepository()
	activityLogRepo := repositories.NewActivityLogRepository()
	savedPropertyRepo := repositories.NewSavedPropertyRepository()
	ticketRepo := repositories.NewSupportTicketRepository()

	// --- Инициализация сервисов ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo, broker, mailer, cfg.Notifications.RecentLimit)
	activityLogService := services.NewActivityLogService(activityLogRepo)
	bookingService := services.NewBookingService(bookingRepo, propertyRepo, userRepo, notificationService, activityLogService)
	propertyService := services.NewPropertyService(propertyRepo, bookingRepo, userRepo, notificationService, activityLogService)

	return &services.ServiceContainer{
		BookingService:      bookingService,
		NotificationService: notificationService,
		ActivityLogService:  activityLogService,
		PropertyService:     propertyService,

		SavedPropertyService: services.NewSavedPropertyService(savedPropertyRepo, propertyRepo, userRepo, notificationService, activityLogService),
		SupportTicketService: services.NewSupportTicketService(ticketRepo, userRepo, notificationService, activityLogService),

		EmailService: mailer,
		Broker:       broker,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		BookingHandler:      handlers.NewBookingHandler(baseHandler, services.BookingService),
		PropertyHandler:     handlers.NewPropertyHandler(baseHandler, services.PropertyService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
		ActivityLogHandler:  handlers.NewActivityLogHandler(baseHandler, services.ActivityLogService),

		SavedPropertyHandler: handlers.NewSavedPropertyHandler(baseHandler, services.SavedPropertyService),
		SupportTicketHandler: handlers.NewSupportTicketHandler(baseHandler, services.SupportTicketService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}
	if err := auth.ValidatePassword(adminPassword); err != nil {
		return fmt.Errorf("first admin password: %w", err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	userRepo := repositories.NewUserRepository()
	err = userRepo.Create(tx, &models.User{
		Name:         cfg.FirstAdminName,
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		Role:         models.UserRoleAdmin,
	})
	if errors.Is(err, repositories.ErrUserAlreadyExists) {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("✅ Successfully created first admin user", "email", adminEmail)
	return tx.Commit().Error
}
