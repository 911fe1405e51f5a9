package health_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lull/internal/adapters/health"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func serveBuffered(t *testing.T, srv *health.Server) func(context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, lis) }()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	dialer := grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
	return func(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
		return health.CheckTarget(ctx, "passthrough:///bufnet", dialer)
	}
}

func TestServer_ReportsNotServingUntilSet(t *testing.T) {
	t.Parallel()

	srv := health.NewServer()
	check := serveBuffered(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := check(ctx)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)

	srv.SetServing(true)
	status, err = check(ctx)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	srv.SetServing(false)
	status, err = check(ctx)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)
}

func TestServer_ServeUnixSocket(t *testing.T) {
	t.Parallel()

	// Unix socket paths are limited in length, so avoid t.TempDir under deep build dirs.
	dir, err := os.MkdirTemp("", "lull-health")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	socketPath := filepath.Join(dir, "run", "health.sock")

	// A stale socket file from a previous run is replaced.
	require.NoError(t, os.MkdirAll(filepath.Dir(socketPath), 0o750))
	require.NoError(t, os.WriteFile(socketPath, nil, 0o600))

	srv := health.NewServer()
	srv.SetServing(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, socketPath) }()

	checkCtx, checkCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer checkCancel()

	require.Eventually(t, func() bool {
		status, err := health.Check(checkCtx, socketPath)
		return err == nil && status == healthpb.HealthCheckResponse_SERVING
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	_, statErr := os.Stat(socketPath)
	assert.True(t, os.IsNotExist(statErr), "socket should be removed on shutdown")
}

func TestCheck_NoServer(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	status, err := health.Check(ctx, filepath.Join(t.TempDir(), "missing.sock"))
	require.Error(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_UNKNOWN, status)
}

func TestServer_ProbeUnreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	status, err := health.NewServer().Probe(ctx, filepath.Join(t.TempDir(), "missing.sock"))
	require.Error(t, err)
	assert.Equal(t, "UNKNOWN", status)
}
