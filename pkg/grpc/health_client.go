package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/example/gourmet/pkg/discovery"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthClient probes the health service of a running API instance.
type HealthClient struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
	target string
	logger *zap.Logger
}

// ResolveTarget returns the first registered address of service, falling
// back to fallback when discovery is nil or has no instances.
func ResolveTarget(ctx context.Context, disc *discovery.ServiceDiscovery, service, fallback string, logger *zap.Logger) string {
	if disc == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	instances, err := disc.Discover(ctx, service)
	if err != nil || len(instances) == 0 {
		logger.Info("Using default address", zap.String("service", service), zap.String("address", fallback))
		return fallback
	}

	logger.Info("Discovered service", zap.String("service", service), zap.String("address", instances[0].Addr()))
	return instances[0].Addr()
}

func NewHealthClient(target string, logger *zap.Logger, opts ...grpc.DialOption) (*HealthClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", target, err)
	}

	return &HealthClient{
		conn:   conn,
		client: healthpb.NewHealthClient(conn),
		target: target,
		logger: logger,
	}, nil
}

// Check asks for the status of service ("" is the whole server).
func (c *HealthClient) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check against %s failed: %w", c.target, err)
	}
	c.logger.Debug("Health check", zap.String("target", c.target), zap.String("status", resp.GetStatus().String()))
	return resp.GetStatus(), nil
}

func (c *HealthClient) Close() error {
	return c.conn.Close()
}
