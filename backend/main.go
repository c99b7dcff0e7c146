package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/cache"
	"github.com/Nienta-PK/taskmanager/backend/internal/clock"
	"github.com/Nienta-PK/taskmanager/backend/internal/config"
	"github.com/Nienta-PK/taskmanager/backend/internal/database"
	"github.com/Nienta-PK/taskmanager/backend/internal/handlers"
	"github.com/Nienta-PK/taskmanager/backend/internal/middleware"
	"github.com/Nienta-PK/taskmanager/backend/internal/monitoring"
	"github.com/Nienta-PK/taskmanager/backend/internal/repositories"
	"github.com/Nienta-PK/taskmanager/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all application dependencies and state
type Application struct {
	Config *config.Config
	DB     *database.DatabasePool
	Cache  *cache.MultiLevelCache
	Redis  *redis.Client
	Clock  *clock.OffsetClock
	Router *gin.Engine
	Server *http.Server

	warmCancel context.CancelFunc

	// Services
	LookupService       *services.LookupServiceImpl
	TaskService         services.TaskService
	AuthService         services.AuthService
	UserService         services.UserService
	RegisterService     services.RegisterService
	AuthzService        services.AuthorizationService
	LoginHistoryService services.LoginHistoryService
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize application: %v", err)
	}

	app.setupRoutes()
	app.startServer()
}

func initializeApplication(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config: cfg,
		Clock:  clock.New(cfg.Clock.UTCOffset),
	}

	log.Println("🚀 Initializing Task Manager Backend...")
	log.Printf("📋 Environment: %s (clock offset %s)", cfg.Server.Environment, app.Clock.Offset())

	pool, err := database.NewDatabasePool(database.PoolConfigFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	app.DB = pool
	log.Println("✅ Database connected and configured")

	migrationConfig := repositories.MigrationConfigFrom(cfg)
	if err := repositories.RunMigrations(pool.DB, migrationConfig); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	app.connectRedis()
	app.initCache()

	if err := app.initServices(); err != nil {
		return nil, err
	}

	app.registerHealthChecks(migrationConfig)

	return app, nil
}

func (app *Application) connectRedis() {
	cfg := app.Config
	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis unavailable: %v (continuing with memory cache only)", err)
		redisClient.Close()
		return
	}

	app.Redis = redisClient
	log.Println("✅ Redis connected")
}

func (app *Application) initCache() {
	strategy := &cache.WarmupStrategy{
		BatchSize:      4,
		ConcurrentJobs: app.Config.Cache.WarmerWorkers,
		WarmupInterval: app.Config.Cache.WarmInterval,
	}

	if app.Redis != nil {
		app.Cache = cache.NewMultiLevelCache(cache.NewRedisCacheFromClient(app.Redis, "taskmanager:"), strategy)
		log.Println("✅ Multi-level cache initialized (Memory L1 + Redis L2)")
		return
	}

	app.Cache = cache.NewMultiLevelCache(nil, strategy)
	log.Println("✅ Memory cache initialized (no L2)")
}

func (app *Application) initServices() error {
	db := app.DB.DB

	taskRepo := repositories.NewTaskRepository(db)
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	historyRepo, err := repositories.NewLoginHistoryRepository(db)
	if err != nil {
		return err
	}

	app.LookupService = services.NewLookupService(repositories.NewLookupRepository(db), app.Cache, app.Config.Cache.LookupTTL)
	app.TaskService = services.NewTaskService(taskRepo, app.LookupService, app.Clock)
	app.UserService = services.NewUserService(userRepo)
	app.RegisterService = services.NewRegisterService(userRepo, app.Clock)
	app.AuthzService = services.NewAuthorizationService(taskRepo)
	app.LoginHistoryService = services.NewLoginHistoryService(historyRepo, app.Clock)

	authService, err := services.NewAuthService(userRepo, tokenRepo, app.LoginHistoryService, services.AuthSettings{
		SecretKey:       app.Config.Auth.SecretKey,
		Algorithm:       app.Config.Auth.Algorithm,
		AccessTokenTTL:  app.Config.Auth.AccessTokenTTL,
		RefreshTokenTTL: app.Config.Auth.RefreshTokenTTL,
	})
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}
	app.AuthService = authService

	if purged, err := tokenRepo.PurgeExpired(context.Background(), time.Now()); err != nil {
		log.Printf("⚠️  Failed to purge expired refresh tokens: %v", err)
	} else if purged > 0 {
		log.Printf("🧹 Purged %d expired refresh tokens", purged)
	}

	warmer := app.Cache.GetWarmer()
	for _, job := range app.LookupService.WarmupJobs() {
		warmer.AddWarmupJob(job)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.warmCancel = cancel
	warmer.Start(ctx)

	log.Println("✅ All services initialized")
	return nil
}

func (app *Application) registerHealthChecks(migrationConfig *repositories.MigrationConfig) {
	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		return app.DB.Health()
	})

	monitoring.RegisterHealthCheck("migrations", func(ctx context.Context) error {
		version, dirty, err := repositories.GetMigrationVersion(app.DB.DB, migrationConfig)
		if err != nil {
			return err
		}
		if dirty {
			return fmt.Errorf("schema version %d is dirty", version)
		}
		return nil
	})

	monitoring.RegisterHealthCheck("lookups", func(ctx context.Context) error {
		_, err := app.LookupService.Load(ctx)
		return err
	})

	if app.Redis != nil {
		monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		})
	}
}

func (app *Application) setupRoutes() {
	r := gin.New()

	// Global middleware stack (order matters!)
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryWithLog())
	r.Use(monitoring.MetricsMiddleware())
	r.Use(middleware.SecureHeaders(app.Config.IsProduction()))
	r.Use(middleware.RateLimiter(middleware.PerMinute(app.Config.RateLimit.RequestsPerMin), app.Config.RateLimit.BurstSize))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     app.Config.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health and monitoring endpoints (no auth required)
	r.GET("/health", monitoring.HealthHandler())
	r.GET("/ready", monitoring.ReadinessHandler())
	r.GET("/live", monitoring.LivenessHandler())
	r.GET("/metrics", monitoring.MetricsHandler(
		monitoring.Collector{Name: "cache", Collect: func() interface{} { return app.Cache.Stats() }},
		monitoring.Collector{Name: "database", Collect: func() interface{} { return app.DB.Stats() }},
	))

	v1 := r.Group("/api/v1")
	requireAuth := middleware.JWTAuth(app.AuthService)
	adminOnly := middleware.AdminOnly(app.AuthzService)

	authHandler := handlers.NewAuthHandler(app.AuthService, app.AuthzService)
	registrationHandler := handlers.NewRegisterHandler(app.RegisterService)

	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", registrationHandler.Registration)
		authRoutes.POST("/login", middleware.LoginLimiter(app.Redis, app.Config.RateLimit.LoginPerMin), authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
		authRoutes.POST("/revoke", authHandler.Revoke)
		authRoutes.GET("/user-info/:email", requireAuth, authHandler.UserInfo)
	}

	lookupHandler := handlers.NewLookupHandler(app.LookupService)
	lookupRoutes := v1.Group("/lookups")
	{
		lookupRoutes.GET("/categories", lookupHandler.Categories)
		lookupRoutes.GET("/priorities", lookupHandler.Priorities)
		lookupRoutes.GET("/statuses", lookupHandler.Statuses)
		lookupRoutes.GET("/weekdays", lookupHandler.Weekdays)
	}

	// Protected routes (require authentication)
	protected := v1.Group("")
	protected.Use(requireAuth)
	{
		taskHandler := handlers.NewTaskHandler(app.TaskService, app.AuthzService)
		taskRoutes := protected.Group("/tasks")
		{
			taskRoutes.GET("", taskHandler.GetTasks)
			taskRoutes.POST("", taskHandler.CreateTask)
			taskRoutes.GET("/overview", taskHandler.Overview)
			taskRoutes.GET("/due-soon", taskHandler.DueSoon)
			taskRoutes.GET("/calendar", taskHandler.Calendar)
			taskRoutes.GET("/:id", taskHandler.GetTaskByID)
			taskRoutes.PUT("/:id/complete", taskHandler.CompleteTask)
			taskRoutes.PUT("/:id/abandon", taskHandler.AbandonTask)
		}

		userHandler := handlers.NewUserHandler(app.UserService, app.AuthzService)
		userRoutes := protected.Group("/users")
		{
			userRoutes.GET("", adminOnly, userHandler.ListUsers)
			userRoutes.DELETE("/:user_id", adminOnly, userHandler.DeleteUser)
			userRoutes.GET("/:user_id", userHandler.GetUser)
			userRoutes.PUT("/:user_id", userHandler.UpdateUser)
		}

		historyHandler := handlers.NewLoginHistoryHandler(app.LoginHistoryService, app.AuthzService)
		historyRoutes := protected.Group("/login-history")
		{
			historyRoutes.POST("/stamp", historyHandler.Stamp)
			historyRoutes.GET("", adminOnly, historyHandler.List)
			historyRoutes.GET("/user/:user_id", historyHandler.ListByUser)
		}

		// Cache management routes (admin only)
		cacheHandler := handlers.NewCacheHandler(app.Cache.GetWarmer(), app.Cache)
		cacheRoutes := protected.Group("/cache")
		cacheRoutes.Use(adminOnly)
		{
			cacheRoutes.GET("/stats", cacheHandler.GetCacheStats)
			cacheRoutes.POST("/clear", cacheHandler.ClearCache)
			cacheRoutes.POST("/warm", cacheHandler.WarmCache)
			cacheRoutes.DELETE("/evict/:key", cacheHandler.EvictCacheKey)
		}
	}

	app.Router = r
}

func (app *Application) startServer() {
	addr := app.Config.GetServerAddr()

	app.Server = &http.Server{
		Addr:         addr,
		Handler:      app.Router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("🛑 Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.Server.Shutdown(ctx); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}

		app.cleanup()
		log.Println("✅ Server stopped gracefully")
	}()

	log.Printf("🚀 Server starting on %s", addr)
	log.Printf("📊 Metrics available at http://%s/metrics", addr)
	log.Printf("💚 Health check at http://%s/health", addr)

	if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
	<-done
}

func (app *Application) cleanup() {
	log.Println("🧹 Cleaning up resources...")

	if app.warmCancel != nil {
		app.warmCancel()
	}

	// closing the cache also closes the redis client shared by its L2
	if app.Cache != nil {
		if err := app.Cache.Close(); err != nil {
			log.Printf("⚠️  Error closing cache: %v", err)
		}
	}

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			log.Printf("⚠️  Error closing database: %v", err)
		}
	}

	log.Println("✅ Cleanup complete")
}
