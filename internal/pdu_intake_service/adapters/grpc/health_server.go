package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sort"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported alongside the overall ("") status.
const ServiceName = "pdu_intake"

const defaultCheckInterval = 10 * time.Second

// Check tests one dependency.
type Check func(ctx context.Context) error

// HealthServer exposes grpc.health.v1 for orchestrators. Status is SERVING only while every
// check passes.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	checks map[string]Check
	logger *slog.Logger
}

func NewHealthServer(checks map[string]Check, logger *slog.Logger) *HealthServer {
	s := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)
	return &HealthServer{server: s, health: hs, checks: checks, logger: logger}
}

// Refresh runs all checks once and publishes the resulting status.
func (h *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.WarnContext(ctx, "Health check failed", "check", name, "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// RunChecks refreshes the status every interval until ctx is done.
func (h *HealthServer) RunChecks(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	h.Refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.Refresh(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// Serve blocks serving on lis until Stop is called.
func (h *HealthServer) Serve(lis net.Listener) error {
	h.logger.Info("gRPC health server listening", "address", lis.Addr().String())
	if err := h.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop marks everything NOT_SERVING and stops gracefully.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
