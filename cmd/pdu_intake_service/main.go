package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	grpcadapter "github.com/bharatscore/pdu_intake/internal/pdu_intake_service/adapters/grpc"
	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/adapters/gsm"
	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/adapters/sink"
	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/app"
	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/repository/postgres"
	httptransport "github.com/bharatscore/pdu_intake/internal/pdu_intake_service/transport/http"
	"github.com/bharatscore/pdu_intake/internal/platform/config"
	"github.com/bharatscore/pdu_intake/internal/platform/database"
	"github.com/bharatscore/pdu_intake/internal/platform/logger"
	"github.com/bharatscore/pdu_intake/internal/platform/messagebroker"
)

const (
	serviceName     = "pdu_intake_service"
	shutdownTimeout = 10 * time.Second
)

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat).With("service", serviceName)
	appLogger.Info("Starting service...")

	policy, err := app.ParseFailurePolicy(cfg.FailurePolicy)
	if err != nil {
		appLogger.Error("Invalid failure policy", "error", err)
		os.Exit(1)
	}

	appLogger.Info("Configuration loaded",
		"log_level", cfg.LogLevel,
		"nats_url", cfg.NATSUrl,
		"postgres_dsn_present", cfg.PostgresDSN != "",
		"failure_policy", policy.String(),
		"http_port", cfg.HTTPPort,
		"grpc_health_port", cfg.GRPCHealthPort,
		"metrics_port", cfg.MetricsPort,
	)

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN, database.PoolOptions{})
	if err != nil {
		appLogger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	if err := database.Migrate(mainCtx, dbPool, postgres.Schema...); err != nil {
		appLogger.Error("Failed to apply inbox schema", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Database connection pool initialized")

	nc, err := messagebroker.NewNATSClient(cfg.NATSUrl, appLogger, serviceName)
	if err != nil {
		appLogger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	appLogger.Info("NATS connection initialized")

	inboxRepo := postgres.NewPgInboxRepository(dbPool, appLogger)

	var sinks sink.Fanout
	if cfg.SinkPostgresEnabled {
		sinks = append(sinks, sink.Named{Name: "postgres", Sink: sink.NewRepositorySink(inboxRepo)})
	}
	if cfg.SinkNATSEnabled {
		sinks = append(sinks, sink.Named{Name: "nats", Sink: sink.NewNATSSink(nc, cfg.DecodedSubject)})
	}
	if cfg.SinkKafkaEnabled {
		kafkaWriter := sink.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := kafkaWriter.Close(); err != nil {
				appLogger.Warn("Kafka writer close failed", "error", err)
			}
		}()
		sinks = append(sinks, sink.Named{Name: "kafka", Sink: sink.NewKafkaSink(kafkaWriter)})
	}
	appLogger.Info("Sinks configured", "count", len(sinks))

	normalizer := app.NewNormalizer(gsm.NewDecoder(),
		app.Observers{app.NewLogObserver(appLogger, logger.ParseLevel(cfg.SegmentLogLevel)), app.MetricsObserver{}},
		policy,
	)
	receiver := app.NewReceiver(normalizer, sinks, appLogger.With("component", "receiver"))
	consumer := app.NewNotificationConsumer(nc, receiver, appLogger)
	inboxService := app.NewInboxService(inboxRepo, appLogger.With("component", "inbox"))

	validate := validator.New()
	router := httptransport.NewRouter(httptransport.RouterDeps{
		Notifications: httptransport.NewNotificationHandler(receiver, appLogger, validate),
		Inbox:         httptransport.NewInboxHandler(inboxService, appLogger, validate),
		JWTSecret:     []byte(cfg.JWTSecret),
		Logger:        appLogger,
		Checks: map[string]httptransport.ReadinessCheck{
			"postgres": dbPool.Ping,
			"nats":     nc.Healthy,
		},
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	healthServer := grpcadapter.NewHealthServer(map[string]grpcadapter.Check{
		"postgres": dbPool.Ping,
		"nats":     nc.Healthy,
	}, appLogger)

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		return consumer.StartConsuming(groupCtx, cfg.NotificationSubject, cfg.NotificationQueueGroup)
	})

	g.Go(func() error {
		appLogger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		appLogger.Info("Metrics server listening", "address", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCHealthPort))
		if err != nil {
			return fmt.Errorf("grpc health listen: %w", err)
		}
		return healthServer.Serve(lis)
	})

	g.Go(func() error {
		return healthServer.RunChecks(groupCtx, cfg.HealthCheckInterval)
	})

	if cfg.InboxRetention > 0 && cfg.RetentionSweepInterval > 0 {
		g.Go(func() error {
			appLogger.Info("Starting inbox retention sweeper", "retention", cfg.InboxRetention.String(), "interval", cfg.RetentionSweepInterval.String())
			return inboxService.RunRetention(groupCtx, cfg.RetentionSweepInterval, cfg.InboxRetention)
		})
	}

	g.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Shutting down servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		healthServer.Stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("HTTP server shutdown failed", "error", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Metrics server shutdown failed", "error", err)
		}
		return nil
	})

	appLogger.Info("Service components initialized and workers started. Service is ready.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var groupErr error
	select {
	case sig := <-sigCh:
		appLogger.Info("Received termination signal", "signal", sig.String())
	case groupErr = <-watchGroup(g):
		appLogger.Error("A critical component failed, initiating shutdown", "error", groupErr)
	}

	appLogger.Info("Attempting graceful shutdown...")
	mainCancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Error during graceful shutdown of components", "error", err)
	}
	appLogger.Info("Service shutdown complete.")
}

// watchGroup returns a channel that receives the result of g.Wait.
func watchGroup(g *errgroup.Group) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Wait()
		close(errCh)
	}()
	return errCh
}
