// Package rpc implements printctl's gRPC surface (spec C12): a unary
// device-enumeration call and a server-streaming per-printer connection,
// grounded directly on malbeclabs-doublezero/mcastrelay's gRPC relay
// server (subscribe-to-broadcast, select on ctx.Done/channel, Send per
// item).
package rpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/printctl/printctl-go/internal/agent"
	"github.com/printctl/printctl-go/internal/errs"
	"github.com/printctl/printctl-go/rpc/printctlpb"
	"google.golang.org/grpc"
)

// Server implements printctlpb.PrintctlServer over an Agent.
type Server struct {
	printctlpb.UnimplementedPrintctlServer

	agent  *agent.Agent
	logger *slog.Logger
	grpc   *grpc.Server
}

// New returns a Server bound to ag.
func New(ag *agent.Agent, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{agent: ag, logger: logger, grpc: grpc.NewServer()}
	printctlpb.RegisterPrintctlServer(s.grpc, s)
	return s
}

// Serve blocks, accepting connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("rpc server starting", "address", lis.Addr().String())
	return s.grpc.Serve(lis)
}

// Stop gracefully stops the gRPC server.
func (s *Server) Stop() {
	s.logger.Info("rpc server stopping")
	s.grpc.GracefulStop()
}

// AvailableDevices delegates to the agent's serial device registry.
func (s *Server) AvailableDevices(ctx context.Context, _ *printctlpb.AvailableDevicesRequest) (*printctlpb.AvailableDevicesResponse, error) {
	devices, err := s.agent.AvailableDevices()
	if err != nil {
		return nil, err
	}

	out := make([]*printctlpb.DeviceInfo, len(devices))
	for i, d := range devices {
		out[i] = &printctlpb.DeviceInfo{
			Path:         d.Path,
			Vendor:       d.Vendor,
			Product:      d.Product,
			SerialNumber: d.SerialNumber,
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
		}
	}
	return &printctlpb.AvailableDevicesResponse{Devices: out}, nil
}

// DeviceConnection streams firmware lines from the named printer's
// worker until the client disconnects or the worker closes the
// subscription (on lag, after forwarding the lag notice, or on shutdown).
func (s *Server) DeviceConnection(req *printctlpb.DeviceConnectionRequest, stream printctlpb.Printctl_DeviceConnectionServer) error {
	w, ok := s.agent.Printer(req.PrinterID)
	if !ok {
		return errs.New(errs.KindNotConnected, "Server.DeviceConnection", fmt.Errorf("unknown printer %q", req.PrinterID))
	}

	sub := w.Subscribe()
	defer w.Unsubscribe(sub)

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub:
			if !ok {
				return nil
			}
			if err := stream.Send(&printctlpb.DeviceEvent{Line: ev.Line, Lagged: ev.Lagged}); err != nil {
				return err
			}
		}
	}
}
