// Package main is the entry point for the ArtFlow backend.
// A single binary serves the REST API and the WebSocket notification stream.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/auth"
	"github.com/artflow/artflow/internal/common/config"
	"github.com/artflow/artflow/internal/common/httpmw"
	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/common/tracing"
	"github.com/artflow/artflow/internal/db"
	"github.com/artflow/artflow/internal/events"
	gateway "github.com/artflow/artflow/internal/gateway/websocket"

	contenthandlers "github.com/artflow/artflow/internal/content/handlers"
	contentservice "github.com/artflow/artflow/internal/content/service"
	contentstore "github.com/artflow/artflow/internal/content/store"
	projecthandlers "github.com/artflow/artflow/internal/project/handlers"
	projectservice "github.com/artflow/artflow/internal/project/service"
	projectstore "github.com/artflow/artflow/internal/project/store"
	prompthandlers "github.com/artflow/artflow/internal/prompt/handlers"
	promptservice "github.com/artflow/artflow/internal/prompt/service"
	promptstore "github.com/artflow/artflow/internal/prompt/store"
	userhandlers "github.com/artflow/artflow/internal/user/handlers"
	userservice "github.com/artflow/artflow/internal/user/service"
	userstore "github.com/artflow/artflow/internal/user/store"
)

const serverName = "artflow-backend"

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logger
	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetDefault(log)

	log.Info("Starting ArtFlow backend...",
		zap.String("environment", cfg.Server.Environment))

	// 3. Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Initialize event bus (in-memory by default, NATS if configured)
	provided, busCleanup, err := events.Provide(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize event bus", zap.Error(err))
	}
	defer busCleanup()
	eventBus := provided.Bus
	if provided.NATS != nil {
		log.Info("Connected to NATS event bus", zap.String("url", cfg.NATS.URL))
	} else {
		log.Info("Using in-memory event bus")
	}

	// 5. Open the database
	pool, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer pool.Close()
	log.Info("Database initialized", zap.String("driver", pool.Driver()))

	// 6. Repositories
	userRepo, err := userstore.NewSQLRepository(pool)
	if err != nil {
		log.Fatal("Failed to initialize user store", zap.Error(err))
	}
	promptRepo, err := promptstore.NewSQLRepository(pool)
	if err != nil {
		log.Fatal("Failed to initialize prompt store", zap.Error(err))
	}
	projectRepo, err := projectstore.NewSQLRepository(pool)
	if err != nil {
		log.Fatal("Failed to initialize project store", zap.Error(err))
	}
	contentRepo, err := contentstore.NewSQLRepository(pool)
	if err != nil {
		log.Fatal("Failed to initialize content idea store", zap.Error(err))
	}

	// 7. Services
	tokens := auth.NewTokenManager(cfg.Auth)
	if !tokens.Configured() {
		log.Warn("JWT_SECRET is not set, authenticated requests will be rejected")
	}
	authSvc := auth.NewService(userRepo, tokens, eventBus, log)
	userSvc := userservice.NewService(userRepo, eventBus, log)
	promptSvc := promptservice.NewService(promptRepo, eventBus, log)
	projectSvc := projectservice.NewService(projectRepo, eventBus, log)
	contentSvc := contentservice.NewService(contentRepo, eventBus, log)

	// 8. WebSocket gateway
	wsGateway := gateway.NewGateway(tokens, log)
	go wsGateway.Hub.Run(ctx)

	broadcaster := gateway.NewEventBroadcaster(wsGateway.Hub, eventBus, log)
	if err := broadcaster.Start(); err != nil {
		log.Fatal("Failed to start event broadcaster", zap.Error(err))
	}
	defer broadcaster.Stop()

	// 9. HTTP router
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.CORS(cfg.CORS.AllowedOrigins()))
	router.Use(httpmw.RequestLogger(log, serverName))
	router.Use(httpmw.OtelTracing(serverName))
	router.Use(httpmw.ErrorHandler(log, cfg.Server.IsProduction()))
	router.NoRoute(httpmw.NoRoute())

	wsGateway.SetupRoutes(router)

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"status":      "ok",
			"message":     "ArtFlow API is running",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.Server.Environment,
		})
	}
	router.GET("/health", healthHandler)

	api := router.Group("/api")
	api.GET("/health", healthHandler)

	protected := api.Group("")
	protected.Use(auth.Require(tokens))

	auth.RegisterRoutes(api, protected, authSvc, log)
	userhandlers.RegisterRoutes(protected, userSvc, log)
	prompthandlers.RegisterRoutes(protected, promptSvc, log)
	projecthandlers.RegisterRoutes(protected, projectSvc, log)
	contenthandlers.RegisterRoutes(protected, contentSvc, log)

	// 10. HTTP server
	port := cfg.Server.Port
	if port == 0 {
		port = 3000
	}
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	go func() {
		log.Info("Server listening", zap.Int("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down ArtFlow backend...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracing shutdown error", zap.Error(err))
	}

	log.Info("ArtFlow backend stopped")
}
