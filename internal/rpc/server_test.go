package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/printctl/printctl-go/internal/agent"
	"github.com/printctl/printctl-go/internal/serialio"
	"github.com/printctl/printctl-go/rpc/printctlpb"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

func dialServer(t *testing.T, srv *Server) printctlpb.PrintctlClient {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	go func() { _ = srv.grpc.Serve(lis) }()
	t.Cleanup(srv.Stop)

	dialer := func(context.Context, string) (net.Conn, error) { return lis.Dial() }
	conn, err := grpc.NewClient("passthrough:bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return printctlpb.NewPrintctlClient(conn)
}

func TestAvailableDevicesRoundTrip(t *testing.T) {
	ag := agent.New("bench1", serialio.NewRegistry(), nil)
	client := dialServer(t, New(ag, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := client.AvailableDevices(ctx, &printctlpb.AvailableDevicesRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestDeviceConnectionUnknownPrinterErrors(t *testing.T) {
	ag := agent.New("bench1", serialio.NewRegistry(), nil)
	client := dialServer(t, New(ag, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stream, err := client.DeviceConnection(ctx, &printctlpb.DeviceConnectionRequest{PrinterID: "missing"})
	require.NoError(t, err)

	_, err = stream.Recv()
	require.Error(t, err)
}
