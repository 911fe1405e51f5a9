// Package health serves the gRPC health protocol over a unix socket while lull is watching.
package health

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"

	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/lull/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var _ ports.Health = (*Server)(nil)

// ServiceName is the health service name reported for the watcher.
const ServiceName = "lull.Watcher"

// Server serves gRPC health checks.
type Server struct {
	grpcServer *grpc.Server
	health     *grpchealth.Server
}

// NewServer creates a health server that reports NOT_SERVING until SetServing is called.
func NewServer() *Server {
	s := &Server{
		grpcServer: grpc.NewServer(),
		health:     grpchealth.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	s.SetServing(false)
	return s
}

// SetServing updates the reported status of the watcher and the overall server.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Serve listens on the unix socket at socketPath until ctx is done.
func (s *Server) Serve(ctx context.Context, socketPath string) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), domain.DirPerm); err != nil {
		return errors.Join(domain.ErrHealthServeFailed, zerr.With(err, "socket", socketPath))
	}
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return errors.Join(domain.ErrHealthServeFailed, zerr.With(zerr.Wrap(err, "failed to remove stale socket"), "socket", socketPath))
	}

	lis, err := net.Listen("unix", socketPath)
	if err != nil {
		return errors.Join(domain.ErrHealthServeFailed, zerr.With(err, "socket", socketPath))
	}
	defer func() { _ = os.Remove(socketPath) }()

	if err := os.Chmod(socketPath, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return errors.Join(domain.ErrHealthServeFailed, zerr.With(err, "socket", socketPath))
	}

	return s.ServeListener(ctx, lis)
}

// ServeListener serves on lis until ctx is done, then stops gracefully.
func (s *Server) ServeListener(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		if err != nil {
			return errors.Join(domain.ErrHealthServeFailed, err)
		}
		return nil
	}
}

// Probe implements ports.Health by checking the watcher listening on socketPath.
func (s *Server) Probe(ctx context.Context, socketPath string) (string, error) {
	status, err := Check(ctx, socketPath)
	return status.String(), err
}

// Check asks the server listening on socketPath for the watcher status.
func Check(ctx context.Context, socketPath string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	return CheckTarget(ctx, "unix://"+socketPath)
}

// CheckTarget asks the server at a gRPC target for the watcher status.
func CheckTarget(ctx context.Context, target string, opts ...grpc.DialOption) (healthpb.HealthCheckResponse_ServingStatus, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, zerr.Wrap(err, "health client creation failed")
	}
	defer func() { _ = conn.Close() }()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, zerr.With(zerr.Wrap(err, "health check failed"), "target", target)
	}
	return resp.GetStatus(), nil
}
