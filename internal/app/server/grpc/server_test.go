package grpc_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpcgo "google.golang.org/grpc"

	"github.com/atinyakov/go-file-relay/internal/app/server/grpc"
	"github.com/atinyakov/go-file-relay/internal/mocks"
)

func startServer(t *testing.T, pinger grpc.Pinger, subnet string) (*grpc.Server, healthpb.HealthClient) {
	t.Helper()
	return startServerWithLogger(t, zap.NewNop(), pinger, subnet)
}

func startServerWithLogger(t *testing.T, logger *zap.Logger, pinger grpc.Pinger, subnet string) (*grpc.Server, healthpb.HealthClient) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.New(logger, pinger, subnet, 0)

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpcgo.NewClient("passthrough:///bufnet",
		grpcgo.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpcgo.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return srv, healthpb.NewHealthClient(conn)
}

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pinger := mocks.NewMockRelayServiceIface(ctrl)
	srv, client := startServer(t, pinger, "")
	ctx := context.Background()

	pinger.EXPECT().PingContext(gomock.Any()).Return(nil)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, srv.CheckHealth(ctx))

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: grpc.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	pinger.EXPECT().PingContext(gomock.Any()).Return(errors.New("upload folder missing"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, srv.CheckHealth(ctx))

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestHealthCheck_UnknownService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, client := startServer(t, mocks.NewMockRelayServiceIface(ctrl), "")

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestHealthCheck_TrustedSubnet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, client := startServer(t, mocks.NewMockRelayServiceIface(ctrl), "192.168.0.0/24")

	outside := metadata.AppendToOutgoingContext(context.Background(), "x-real-ip", "10.0.0.1")
	_, err := client.Check(outside, &healthpb.HealthCheckRequest{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	inside := metadata.AppendToOutgoingContext(context.Background(), "x-real-ip", "192.168.0.7")
	resp, err := client.Check(inside, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestCallsAreLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	core, logs := observer.New(zap.DebugLevel)
	_, client := startServerWithLogger(t, zap.New(core), mocks.NewMockRelayServiceIface(ctrl), "192.168.0.0/24")

	inside := metadata.AppendToOutgoingContext(context.Background(), "x-real-ip", "192.168.0.7")
	_, err := client.Check(inside, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)

	finished := logs.FilterMessage("finished call").TakeAll()
	require.Len(t, finished, 1)
	assert.Equal(t, zapcore.InfoLevel, finished[0].Level)

	fields := finished[0].ContextMap()
	assert.Equal(t, "grpc.health.v1.Health", fields["grpc.service"])
	assert.Equal(t, "Check", fields["grpc.method"])
	assert.Equal(t, "OK", fields["grpc.code"])

	outside := metadata.AppendToOutgoingContext(context.Background(), "x-real-ip", "10.0.0.1")
	_, err = client.Check(outside, &healthpb.HealthCheckRequest{})
	require.Equal(t, codes.PermissionDenied, status.Code(err))

	finished = logs.FilterMessage("finished call").TakeAll()
	require.Len(t, finished, 1)
	assert.Equal(t, zapcore.WarnLevel, finished[0].Level)
	assert.Equal(t, "PermissionDenied", finished[0].ContextMap()["grpc.code"])
}
