package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"adventure-server/internal/web/author"
	"adventure-server/internal/web/client"
	"adventure-server/internal/web/config"
	"adventure-server/internal/web/handler"
	"adventure-server/internal/web/messaging"
	"adventure-server/internal/web/service"
	"adventure-server/pkg/database"
	"adventure-server/pkg/logger"
	"adventure-server/pkg/middleware"
	"adventure-server/pkg/migration"
)

func main() {
	_ = godotenv.Load()
	log.Println("Запуск Web Service...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level: cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	dbPool, err := setupDatabase(cfg)
	if err != nil {
		zapLogger.Fatal("Не удалось подключиться к БД", zap.Error(err))
	}
	defer dbPool.Close()
	zapLogger.Info("Успешное подключение к PostgreSQL")

	if err := runMigrations(dbPool, zapLogger); err != nil {
		zapLogger.Fatal("Не удалось применить миграции", zap.Error(err))
	}

	contentClient, err := client.NewContentServiceClient(cfg.ContentServiceURL, cfg.ContentAPIKey, cfg.ClientTimeout, zapLogger)
	if err != nil {
		zapLogger.Fatal("Не удалось создать клиент контент-сервиса", zap.Error(err))
	}

	// RabbitMQ опционален: без него события о жалобах просто не публикуются.
	var reportPublisher messaging.ReportEventPublisher = messaging.NopReportPublisher{}
	if cfg.RabbitMQURL != "" {
		mqConn, err := connectRabbitMQ(cfg.RabbitMQURL, zapLogger)
		if err != nil {
			zapLogger.Fatal("Не удалось подключиться к RabbitMQ", zap.Error(err))
		}
		defer mqConn.Close()
		zapLogger.Info("Успешное подключение к RabbitMQ")

		reportPublisher, err = messaging.NewRabbitMQReportPublisher(mqConn, cfg.ReportQueueName, zapLogger)
		if err != nil {
			zapLogger.Fatal("Не удалось создать паблишер жалоб", zap.Error(err))
		}
	}

	playRepo := database.NewPgPlayRepository(dbPool, zapLogger)
	ratingRepo := database.NewPgRatingRepository(dbPool, zapLogger)
	reportRepo := database.NewPgReportRepository(dbPool, zapLogger)

	builder := author.NewBuilder(contentClient, zapLogger)
	readerService := service.NewReaderService(contentClient, playRepo, ratingRepo, zapLogger)
	authorService := service.NewAuthorService(contentClient, builder, zapLogger)
	communityService := service.NewCommunityService(contentClient, ratingRepo, reportRepo, reportPublisher, zapLogger)

	webHandler := handler.NewWebHandler(readerService, authorService, communityService, zapLogger, cfg.JWTSecret)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLoggingMiddlewareForGin(zapLogger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Лимит на пишущие эндпоинты, ключ - IP клиента.
	rateLimitStore := rateli.InMemoryStore(&rateli.InMemoryOptions{
		Rate:  time.Second,
		Limit: uint(cfg.RateLimitPerSecond),
	})
	writeLimiter := rateli.RateLimiter(rateLimitStore, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			zapLogger.Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.String("path", c.Request.URL.Path))
			c.String(http.StatusTooManyRequests, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	webHandler.RegisterRoutes(router, writeLimiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Web сервер слушает на порту %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Ошибка запуска HTTP сервера", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Получен сигнал завершения, начинаем graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("Ошибка при graceful shutdown", zap.Error(err))
	}

	log.Println("Web Service успешно остановлен")
}

// runMigrations применяет вшитые в бинарник миграции схемы.
// Оба сервиса применяют один и тот же набор: golang-migrate
// сериализует конкурентные запуски через schema_migrations.
func runMigrations(pool *pgxpool.Pool, zapLogger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: database.MigrationsPath,
		MigrationsFS:   database.MigrationsFS,
	}, pool, zapLogger)
	return migrator.Up(ctx)
}

// setupDatabase инициализирует и возвращает пул соединений с БД.
func setupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать пул соединений: %w", err)
	}
	if err = dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("не удалось подключиться к БД (ping failed): %w", err)
	}
	return dbPool, nil
}

// connectRabbitMQ пытается подключиться к RabbitMQ с несколькими попытками.
func connectRabbitMQ(url string, logger *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	maxRetries := 5
	retryDelay := 5 * time.Second
	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		logger.Warn("Не удалось подключиться к RabbitMQ",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}
	return nil, err
}
