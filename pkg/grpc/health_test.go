package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/example/gourmet/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(ctx context.Context) error { return p.err }

func startHealth(t *testing.T, checks map[string]Pinger) (*HealthServer, *HealthClient) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	srv := NewHealthServer(&config.GRPCConfig{}, "gourmet-api", checks, zap.NewNop())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := NewHealthClient("passthrough:///bufnet", zap.NewNop(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return srv, client
}

func TestHealthServer(t *testing.T) {
	store := &fakePinger{}
	redis := &fakePinger{}
	srv, client := startHealth(t, map[string]Pinger{"store": store, "redis": redis})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := client.Check(ctx, "gourmet-api")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, srv.Check(ctx))
	status, err = client.Check(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	redis.err = errors.New("connection refused")
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, srv.Check(ctx))
	status, err = client.Check(ctx, "gourmet-api")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)

	_, err = client.Check(ctx, "unknown-service")
	assert.Error(t, err)
}

func TestResolveTargetWithoutDiscovery(t *testing.T) {
	got := ResolveTarget(context.Background(), nil, "gourmet-api", "localhost:5001", zap.NewNop())
	assert.Equal(t, "localhost:5001", got)
}
