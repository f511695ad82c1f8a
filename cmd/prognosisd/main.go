package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cfcare/prognosis/internal/application/usecase"
	"github.com/cfcare/prognosis/internal/domain/service"
	"github.com/cfcare/prognosis/internal/infrastructure/config"
	"github.com/cfcare/prognosis/internal/infrastructure/messaging"
	"github.com/cfcare/prognosis/internal/infrastructure/postgres"
	grpcpresentation "github.com/cfcare/prognosis/internal/presentation/grpc"
	"github.com/cfcare/prognosis/internal/presentation/rest"
	"github.com/cfcare/prognosis/pkg/auth"
	"github.com/cfcare/prognosis/pkg/kafka"
	"github.com/cfcare/prognosis/pkg/observability"
	pgshared "github.com/cfcare/prognosis/pkg/postgres"
)

const evaluationTopic = "prognosis.events"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: "json",
	})
	slog.SetDefault(logger)

	logger.Info("starting prognosis-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: "prognosis-service",
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    cfg.Environment != "production",
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize metrics.
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: "prognosis-service",
	})
	if err != nil {
		logger.Warn("failed to initialize metrics", "error", err)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(dbCtx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Apply pending schema migrations.
	if err := pgshared.RunMigrations(cfg.DatabaseURL, "file://"+cfg.MigrationsDir); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// JWT validation.
	jwtCfg := auth.JWTConfig{Issuer: "cfcare", Expiration: time.Hour}
	if cfg.JWTPublicKey != "" {
		pem, err := auth.LoadKeyFromFile(cfg.JWTPublicKey)
		if err != nil {
			logger.Error("failed to load JWT public key", "error", err)
			os.Exit(1)
		}
		jwtCfg.PublicKeyPEM = string(pem)
	} else {
		jwtCfg.Secret = cfg.JWTSecret
	}
	jwtService, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// Wire infrastructure adapters.
	evaluationRepo := postgres.NewEvaluationRepository(pool)
	kafkaCfg := kafka.Config{
		Brokers:       []string{cfg.KafkaBroker},
		ConsumerGroup: "prognosis-alerts",
	}
	producer := kafka.NewProducer(kafkaCfg)
	defer producer.Close()
	eventPublisher := messaging.NewKafkaPublisher(producer, evaluationTopic, logger)

	// Background alert listener for low-survival events.
	alertListener := messaging.NewAlertListener(kafkaCfg, evaluationTopic, logger)
	defer alertListener.Close()
	go func() {
		if err := alertListener.Start(ctx); err != nil {
			logger.Error("alert listener stopped", "error", err)
		}
	}()

	// Wire domain services.
	survivalModel := service.NewSurvivalModel()

	// Wire use cases.
	evaluatePatientUC := usecase.NewEvaluatePatient(evaluationRepo, eventPublisher, survivalModel)
	evaluateBatchUC := usecase.NewEvaluateBatch(evaluatePatientUC)
	getEvaluationUC := usecase.NewGetEvaluation(evaluationRepo)
	listEvaluationsUC := usecase.NewListEvaluations(evaluationRepo)

	// gRPC server.
	grpcHandler := grpcpresentation.NewPrognosisServiceHandler(evaluatePatientUC, getEvaluationUC, logger)
	grpcServer := grpcpresentation.NewServer(grpcHandler, cfg.GRPCAddress(), logger, jwtService, grpcpresentation.ServerOptions{
		TLSCertFile: cfg.TLSCertFile,
		TLSKeyFile:  cfg.TLSKeyFile,
		Reflection:  cfg.GRPCReflection,
	})

	// HTTP server.
	healthHandler := rest.NewHealthHandler(logger, pool)
	evaluationHandler := rest.NewEvaluationHandler(
		evaluatePatientUC, evaluateBatchUC, getEvaluationUC, listEvaluationsUC, logger)

	httpMux := http.NewServeMux()
	healthHandler.RegisterRoutes(httpMux)
	evaluationHandler.RegisterRoutes(httpMux)
	if metricsHandler != nil {
		httpMux.Handle("GET /metrics", metricsHandler)
	}

	var handler http.Handler = httpMux
	handler = rest.AuthMiddleware(jwtService, []string{"/healthz", "/readyz", "/metrics"})(handler)
	handler = rest.RateLimitMiddleware(rest.NewRateLimiter(100))(handler)
	handler = rest.LoggingMiddleware(logger)(handler)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("prognosis-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down prognosis-service")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("prognosis-service stopped")
}
