package printctlpb

import (
	"context"

	"google.golang.org/grpc"
)

// PrintctlServer is the server API for the printctl RPC surface
// (spec.md §4.10): a unary device enumeration call and a
// server-streaming per-device connection.
type PrintctlServer interface {
	AvailableDevices(context.Context, *AvailableDevicesRequest) (*AvailableDevicesResponse, error)
	DeviceConnection(*DeviceConnectionRequest, Printctl_DeviceConnectionServer) error
}

// UnimplementedPrintctlServer can be embedded to satisfy PrintctlServer
// for methods not yet implemented, per grpc-go convention.
type UnimplementedPrintctlServer struct{}

func (UnimplementedPrintctlServer) AvailableDevices(context.Context, *AvailableDevicesRequest) (*AvailableDevicesResponse, error) {
	return nil, grpcUnimplemented("AvailableDevices")
}

func (UnimplementedPrintctlServer) DeviceConnection(*DeviceConnectionRequest, Printctl_DeviceConnectionServer) error {
	return grpcUnimplemented("DeviceConnection")
}

// Printctl_DeviceConnectionServer is the server-side stream handle for
// DeviceConnection.
type Printctl_DeviceConnectionServer interface {
	Send(*DeviceEvent) error
	grpc.ServerStream
}

type printctlDeviceConnectionServer struct {
	grpc.ServerStream
}

func (s *printctlDeviceConnectionServer) Send(ev *DeviceEvent) error {
	return s.ServerStream.SendMsg(ev)
}

// RegisterPrintctlServer registers srv with s, per grpc-go convention.
func RegisterPrintctlServer(s grpc.ServiceRegistrar, srv PrintctlServer) {
	s.RegisterService(&printctlServiceDesc, srv)
}

func handlePrintctlAvailableDevices(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(AvailableDevicesRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PrintctlServer).AvailableDevices(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/printctl.Printctl/AvailableDevices"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PrintctlServer).AvailableDevices(ctx, req.(*AvailableDevicesRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handlePrintctlDeviceConnection(srv interface{}, stream grpc.ServerStream) error {
	req := new(DeviceConnectionRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(PrintctlServer).DeviceConnection(req, &printctlDeviceConnectionServer{stream})
}

var printctlServiceDesc = grpc.ServiceDesc{
	ServiceName: "printctl.Printctl",
	HandlerType: (*PrintctlServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AvailableDevices",
			Handler:    handlePrintctlAvailableDevices,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "DeviceConnection",
			Handler:       handlePrintctlDeviceConnection,
			ServerStreams: true,
		},
	},
	Metadata: "printctl.proto",
}

// PrintctlClient is the client API for the printctl RPC surface.
type PrintctlClient interface {
	AvailableDevices(ctx context.Context, in *AvailableDevicesRequest, opts ...grpc.CallOption) (*AvailableDevicesResponse, error)
	DeviceConnection(ctx context.Context, in *DeviceConnectionRequest, opts ...grpc.CallOption) (Printctl_DeviceConnectionClient, error)
}

type printctlClient struct {
	cc grpc.ClientConnInterface
}

// NewPrintctlClient returns a client bound to cc.
func NewPrintctlClient(cc grpc.ClientConnInterface) PrintctlClient {
	return &printctlClient{cc: cc}
}

func (c *printctlClient) AvailableDevices(ctx context.Context, in *AvailableDevicesRequest, opts ...grpc.CallOption) (*AvailableDevicesResponse, error) {
	out := new(AvailableDevicesResponse)
	if err := c.cc.Invoke(ctx, "/printctl.Printctl/AvailableDevices", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *printctlClient) DeviceConnection(ctx context.Context, in *DeviceConnectionRequest, opts ...grpc.CallOption) (Printctl_DeviceConnectionClient, error) {
	stream, err := c.cc.NewStream(ctx, &printctlServiceDesc.Streams[0], "/printctl.Printctl/DeviceConnection", opts...)
	if err != nil {
		return nil, err
	}
	x := &printctlDeviceConnectionClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// Printctl_DeviceConnectionClient is the client-side stream handle for
// DeviceConnection.
type Printctl_DeviceConnectionClient interface {
	Recv() (*DeviceEvent, error)
	grpc.ClientStream
}

type printctlDeviceConnectionClient struct {
	grpc.ClientStream
}

func (x *printctlDeviceConnectionClient) Recv() (*DeviceEvent, error) {
	ev := new(DeviceEvent)
	if err := x.ClientStream.RecvMsg(ev); err != nil {
		return nil, err
	}
	return ev, nil
}
