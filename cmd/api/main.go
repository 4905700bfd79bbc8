package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/config"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/execution"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/gateway"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/generation"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/history"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/llm"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/metrics"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/orchestration"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/router"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/sandbox"

	_ "github.com/clawworks/agent-platform/agent-orchestrator/docs" // swagger docs
)

// @title Agent Orchestrator API
// @version 1.0
// @description Code generation orchestrator for the agent platform.
// @description
// @description Classifies incoming requests, generates runnable projects with the LLM service,
// @description executes them in the sandbox service and iterates on failures until the run
// @description succeeds or the iteration budget is exhausted.

// @contact.name API Support
// @contact.email support@clawworks.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

func main() {
	// Initialize OpenTelemetry
	if err := initTracer(); err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Run history is optional: without a database the service keeps
	// history in memory and loses it on restart.
	var store history.Store
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		log.Println("Connecting to PostgreSQL database...")
		for i := 0; i < 10; i++ {
			pool, err = pgxpool.New(context.Background(), cfg.DatabaseURL)
			if err == nil {
				err = pool.Ping(context.Background())
				if err == nil {
					break
				}
			}
			log.Printf("Waiting for database... (attempt %d/10): %v", i+1, err)
			time.Sleep(3 * time.Second)
		}
		if err != nil {
			log.Fatalf("Failed to connect to database after retries: %v", err)
		}
		defer pool.Close()
		log.Println("Connected to PostgreSQL database")
		store = history.NewPostgresStore(pool)
	} else {
		log.Println("DATABASE_URL not set, using in-memory run history")
		store = history.NewMemoryStore()
	}

	// External collaborators
	llmClient := llm.NewClient(cfg.LLMServiceURL)
	sandboxClient := sandbox.NewClient(cfg.SandboxServiceURL)

	// Run pipeline
	taskRouter := router.New(llmClient)
	generator := generation.New(llmClient)
	executor := execution.New(
		sandboxClient,
		cfg.WorkspacePath,
		time.Duration(cfg.WarmupSeconds)*time.Second,
		time.Duration(cfg.ScriptTimeoutSecs)*time.Second,
	)

	runMetrics, err := metrics.NewRunMetrics()
	if err != nil {
		log.Printf("Failed to initialize run metrics, continuing without: %v", err)
		runMetrics = nil
	}

	orchestrationService := orchestration.NewService(
		taskRouter,
		generator,
		executor,
		store,
		runMetrics,
		cfg.DefaultIterations,
		cfg.MaxIterations,
	)

	// Gateway layer
	gatewayHandler := gateway.NewHandler(orchestrationService, store, llmClient, sandboxClient)

	// Setup Gin router
	engine := gin.Default()

	// Add structured JSON logging middleware
	engine.Use(structuredLoggingMiddleware())

	// Health checks MUST be at the root for the WebService standard
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	engine.GET("/ready", func(c *gin.Context) {
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "not ready",
					"error":  "database connection failed",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Swagger documentation
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := engine.Group("/api")
	api.POST("/generate", gatewayHandler.Generate)
	api.GET("/generate/stream", gatewayHandler.StreamGenerate)
	api.GET("/runs/:conversation_id", gatewayHandler.GetRuns)
	api.GET("/agents/health", gatewayHandler.AgentsHealth)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generation runs are synchronous on POST /generate
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting Agent Orchestrator API server on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// initTracer initializes OpenTelemetry tracing
func initTracer() error {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)

	return nil
}

// structuredLoggingMiddleware provides structured JSON logging for all requests
func structuredLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)

		logEntry := map[string]interface{}{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}

		if len(c.Errors) > 0 {
			logEntry["errors"] = c.Errors.String()
		}

		logJSON, _ := json.Marshal(logEntry)
		log.Println(string(logJSON))
	}
}
