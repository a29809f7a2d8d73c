package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samriddhi-edu/asksamriddhi-api/config"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/cache"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/database/postgres"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/handlers"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/middleware"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/services"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/db"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/httpclient"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/profiling"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/queryrouter"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/retry"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/storage"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/tracing"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerChatRoutes registers the chat endpoints. The query endpoint is
// open to guests; session management requires an authenticated session.
func registerChatRoutes(
	router *gin.Engine,
	cfg *config.Config,
	queryRateLimiter, generalRateLimiter *middleware.RateLimiter,
	gate services.AccessGateServiceInterface,
	chatHandler *handlers.ChatHandler,
) {
	api := router.Group("/api")

	api.POST("/query",
		queryRateLimiter.Middleware(),
		middleware.BodySizeLimitMiddleware(64*1024),
		middleware.OptionalSessionMiddleware(gate),
		chatHandler.Query)

	chat := api.Group("/chat")
	chat.Use(generalRateLimiter.Middleware())
	chat.Use(middleware.SessionMiddleware(gate, cfg.Session.CookieDomain, cfg.Session.CookieSecure))

	chat.GET("/sessions", chatHandler.ListSessions)
	chat.GET("/sessions/:id/messages", chatHandler.ListMessages)
	chat.PUT("/sessions/:id", middleware.BodySizeLimitMiddleware(16*1024), chatHandler.RenameSession)
	chat.DELETE("/sessions/:id", chatHandler.DeleteSession)
}

// registerAdminRoutes registers the admin dashboard endpoints
func registerAdminRoutes(
	router *gin.Engine,
	cfg *config.Config,
	generalRateLimiter *middleware.RateLimiter,
	gate services.AccessGateServiceInterface,
	adminHandler *handlers.AdminHandler,
) {
	admin := router.Group("/api/admin")
	admin.Use(generalRateLimiter.Middleware())
	admin.Use(middleware.SessionMiddleware(gate, cfg.Session.CookieDomain, cfg.Session.CookieSecure))
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	admin.GET("/stats", adminHandler.DashboardStats)
	admin.GET("/students", adminHandler.ListStudents)
	admin.GET("/teachers", adminHandler.ListTeachers)
	admin.GET("/sessions", adminHandler.ListRecentSessions)
	admin.POST("/documents", middleware.BodySizeLimitMiddleware(40*1024*1024), adminHandler.UploadDocument)
	admin.GET("/documents", adminHandler.ListDocuments)
	admin.DELETE("/documents/:key", adminHandler.DeleteDocument)
}

// drainPersistenceResults consumes asynchronous write outcomes so that
// failed background persistence is visible in logs and metrics.
func drainPersistenceResults(results <-chan models.PersistenceResult) {
	go func() {
		for result := range results {
			if result.Err != nil {
				logger.Error("Background persistence failed",
					zap.String("operation", result.Operation),
					zap.String("session_id", result.SessionID),
					zap.Error(result.Err))
			}
		}
	}()
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting AskSamriddhi API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.OTLPEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize continuous profiling
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL connection pool, retrying while the database
	// container comes up
	var pool *pgxpool.Pool
	err = retry.Do(context.Background(), retry.StartupConfig(), "database_connect", func() error {
		var poolErr error
		pool, poolErr = db.NewPool(context.Background(), db.PoolConfig{
			URL:      cfg.Database.URL,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		return poolErr
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations are run separately via the migrate command

	dbClient := postgres.NewClient(pool)

	// Initialize document storage (optional; admin document endpoints
	// answer 503 when not configured)
	var documentStorage services.DocumentStorage
	if cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		storageClient, storageErr := storage.NewClient(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			cfg.Storage.BucketName,
			cfg.Storage.Endpoint,
			cfg.Storage.Region,
		)
		if storageErr != nil {
			logger.Fatal("Failed to initialize storage client", zap.Error(storageErr))
		}
		documentStorage = storageClient
	} else {
		logger.Warn("Document storage disabled: storage credentials not configured")
	}

	// Two-tier auth verification cache
	authCache := cache.NewAuthCache(
		cfg.AuthCache.EphemeralTTLSeconds,
		cfg.AuthCache.DurableTTLSeconds,
	)

	// Shared HTTP client for outbound calls
	httpClient := httpclient.NewStandardClient()

	// Initialize services
	roleService := services.NewRoleService(dbClient)
	authService := services.NewAuthService(dbClient, roleService, authCache, cfg)
	gateService := services.NewAccessGateService(authCache, roleService, authService.GetTokenManager())
	sessionService := services.NewSessionService(dbClient)
	queryRouterClient := queryrouter.NewClient(
		cfg.QueryRouter.BaseURL,
		time.Duration(cfg.QueryRouter.TimeoutSeconds)*time.Second,
	)
	queryService := services.NewChatQueryService(queryRouterClient, sessionService, roleService)
	adminService := services.NewAdminService(dbClient, documentStorage, cfg.Ingest.WebhookURL, httpClient)

	drainPersistenceResults(sessionService.Results())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, gateService)
	chatHandler := handlers.NewChatHandler(queryService, sessionService)
	adminHandler := handlers.NewAdminHandler(adminService)
	ingestHandler := handlers.NewIngestHandler()
	healthHandler := handlers.NewHealthHandler(func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return dbClient.Ping(ctx) == nil
	})

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: only the configured frontend origins, plus localhost in dev
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.ServiceAuthHeader, "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // Required for session cookies
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters per endpoint class
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	queryRateLimiter := middleware.NewRateLimiter(5, 15)      // chat turns are expensive downstream
	loginRateLimiter := middleware.NewRateLimiter(0.5, 5)     // brute-force protection

	// Utility endpoints
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Authentication endpoints
	auth := api.Group("/auth")
	auth.POST("/login", loginRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", generalRateLimiter.Middleware(), authHandler.Session)

	// Ingest pipeline callback (service-to-service)
	api.POST("/internal/ingest/complete",
		generalRateLimiter.Middleware(),
		middleware.ServiceAuthMiddleware(cfg.Ingest.CallbackToken),
		ingestHandler.Complete)

	registerChatRoutes(router, cfg, queryRateLimiter, generalRateLimiter, gateService, chatHandler)
	registerAdminRoutes(router, cfg, generalRateLimiter, gateService, adminHandler)

	// Create HTTP server. Network isolation is enforced by the container
	// network; the frontend reaches this service by name.
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second, // query router round-trips can be slow
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
