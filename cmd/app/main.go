package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-stock-app/config"
	"github.com/fekuna/omnipos-stock-app/internal/api"
	"github.com/fekuna/omnipos-stock-app/internal/auth"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/internal/server"
	"github.com/fekuna/omnipos-stock-app/internal/storage"
	"github.com/fekuna/omnipos-stock-app/internal/storage/file"
	"github.com/fekuna/omnipos-stock-app/internal/storage/memory"
	"github.com/fekuna/omnipos-stock-app/internal/storage/pgstore"
	"github.com/fekuna/omnipos-stock-app/internal/storage/redisstore"
	"github.com/fekuna/omnipos-stock-app/internal/storage/secure"
	"github.com/fekuna/omnipos-stock-app/pkg/broker"
	"github.com/fekuna/omnipos-stock-app/pkg/cache"
	"github.com/fekuna/omnipos-stock-app/pkg/database/postgres"
	"github.com/fekuna/omnipos-stock-app/pkg/i18n"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"

	authH "github.com/fekuna/omnipos-stock-app/internal/auth/handler"
	authUCPkg "github.com/fekuna/omnipos-stock-app/internal/auth/usecase"

	catH "github.com/fekuna/omnipos-stock-app/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-stock-app/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-stock-app/internal/category/usecase"

	invH "github.com/fekuna/omnipos-stock-app/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-stock-app/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-stock-app/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-stock-app/internal/inventory/usecase"

	entryH "github.com/fekuna/omnipos-stock-app/internal/entry/handler"
	entryUCPkg "github.com/fekuna/omnipos-stock-app/internal/entry/usecase"

	orderH "github.com/fekuna/omnipos-stock-app/internal/order/handler"
	orderUCPkg "github.com/fekuna/omnipos-stock-app/internal/order/usecase"

	exportH "github.com/fekuna/omnipos-stock-app/internal/export/handler"
	exportUCPkg "github.com/fekuna/omnipos-stock-app/internal/export/usecase"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	logConfig.IsDevelopment = cfg.Server.IsDevelopment()
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 2.5 Initialize i18n
	i18n.Init()
	i18n.SetDefault(cfg.I18n.DefaultLocale)
	for _, path := range cfg.I18n.ExtraFiles {
		if err := i18n.Load(path); err != nil {
			appLogger.Warn("Failed to load locale file", zap.String("path", path), zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize Redis (storage driver and stock-event dedup)
	var redisClient *cache.RedisClient
	if cfg.Storage.Driver == "redis" || cfg.Kafka.Enabled {
		var err error
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 4. Initialize Storage
	plain, closeStore, err := openStore(ctx, cfg, redisClient, appLogger)
	if err != nil {
		appLogger.Fatal("Could not open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStore()

	if cfg.Storage.DefaultSecureKey() {
		if !cfg.Server.IsDevelopment() {
			appLogger.Fatal("STORAGE_SECURE_KEY must be set outside development")
		}
		appLogger.Warn("Using the default secure storage key, stored refresh tokens are not protected")
	}
	vault, err := secure.New(ctx, plain, "secure", cfg.Storage.SecureKey)
	if err != nil {
		appLogger.Fatal("Could not open secure storage", zap.Error(err))
	}

	// 5. Initialize Session and API client
	session := auth.NewSession()
	gate := auth.NewGate()
	navigator := auth.NewNavigator(session, func(route string) {
		appLogger.Info("Navigated", zap.String("route", route))
	}, appLogger)
	defer navigator.Close()
	tracker := operation.NewTracker()

	client := api.NewClient(api.Config{
		BaseURL:  cfg.API.BaseURL,
		Platform: cfg.Server.Platform,
		Timeout:  cfg.API.Timeout,
	}, session, appLogger)

	// 6. Initialize Repositories
	catRepo := catRepoPkg.NewMemoryRepository()
	invRepo := invRepoPkg.NewMemoryRepository()

	// 7. Initialize UseCases
	authUC := authUCPkg.NewAuthUseCase(session, auth.NewPersister(plain, vault), client, gate, tracker, appLogger)
	client.OnUnauthorized(authUC.Expire)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, invRepo, client, tracker, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, catRepo, client, redisClient, tracker, appLogger)
	entryUC := entryUCPkg.NewEntryUseCase(invRepo, catRepo, client, tracker, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(invRepo, catRepo, client, tracker, appLogger)
	exportUC := exportUCPkg.NewExportUseCase(client, tracker, appLogger)

	// 8. Rehydrate the session behind the gate
	go func() {
		_ = authUC.Rehydrate(ctx)
		if session.IsAuthenticated() {
			if err := invUC.Refresh(ctx); err != nil {
				appLogger.Warn("Initial inventory refresh failed", zap.Error(err))
			}
		}
	}()

	// 8.5 Initialize Kafka Listener
	if cfg.Kafka.Enabled {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		stockListener := invListenerPkg.NewStockListener(kafkaConsumer, invUC, session.CompanyID, appLogger)
		go func() {
			if err := gate.Wait(ctx); err != nil {
				return
			}
			stockListener.Start(ctx)
		}()
	}

	// 9. Initialize Handlers
	router := server.NewRouter(server.Options{
		Session:   session,
		Gate:      gate,
		Navigator: navigator,
		Tracker:   tracker,
		Auth:      authH.NewAuthHandler(authUC, appLogger),
		App: []server.Registrar{
			catH.NewCategoryHandler(catUC, appLogger),
			invH.NewInventoryHandler(invUC, appLogger),
			entryH.NewEntryHandler(entryUC, appLogger),
			orderH.NewOrderHandler(orderUC, appLogger),
			exportH.NewExportHandler(exportUC, appLogger),
		},
		Logger: appLogger,
	})

	// 10. Start Servers
	httpServer := server.NewHTTPServer(cfg.Server.HTTPAddr, router, appLogger)
	go func() {
		if err := httpServer.Start(); err != nil {
			appLogger.Fatal("failed to serve bridge", zap.Error(err))
		}
	}()

	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}
	grpcServer := server.NewGRPCServer(appLogger)
	go grpcServer.WatchGate(ctx, gate)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("bridge shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

// openStore returns the plain key/value store for the configured driver and
// a func releasing whatever it opened.
func openStore(ctx context.Context, cfg *config.Config, redisClient *cache.RedisClient, log logger.ZapLogger) (storage.Store, func(), error) {
	noop := func() {}

	switch cfg.Storage.Driver {
	case "memory":
		log.Warn("Using in-memory storage, the session will not survive a restart")
		return memory.New(), noop, nil
	case "file":
		s, err := file.New(cfg.Storage.FileDir, "storage.json")
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using file storage", zap.String("dir", cfg.Storage.FileDir))
		return s, noop, nil
	case "redis":
		return redisstore.New(redisClient, "stockapp:"), noop, nil
	case "postgres":
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		s := pgstore.New(db)
		if err := s.Migrate(ctx); err != nil {
			closeDB(db, log)
			return nil, nil, err
		}
		log.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
		return s, func() { closeDB(db, log) }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func closeDB(db *sqlx.DB, log logger.ZapLogger) {
	if err := db.Close(); err != nil {
		log.Warn("closing database", zap.Error(err))
	}
}
