package hubclient

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fiddotdev/hub-go/protocol"
)

// Full method names. The hub schema declares no proto package.
const (
	serviceName             = "HubService"
	submitMessageFullMethod = "/HubService/SubmitMessage"
	getInfoFullMethod       = "/HubService/GetInfo"
)

// HubServiceServer is the subset of the hub RPC surface this module speaks.
//
// Request and response types are the hand-written protocol types, so no
// protoc toolchain is needed. Servers must be created with
// grpc.ForceServerCodec(Codec{}).
type HubServiceServer interface {
	SubmitMessage(context.Context, *protocol.Message) (*protocol.Message, error)
	GetInfo(context.Context, *protocol.HubInfoRequest) (*protocol.HubInfoResponse, error)
}

// UnimplementedHubServiceServer can be embedded for forward compatibility.
type UnimplementedHubServiceServer struct{}

func (UnimplementedHubServiceServer) SubmitMessage(context.Context, *protocol.Message) (*protocol.Message, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitMessage not implemented")
}
func (UnimplementedHubServiceServer) GetInfo(context.Context, *protocol.HubInfoRequest) (*protocol.HubInfoResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetInfo not implemented")
}

func RegisterHubServiceServer(s grpc.ServiceRegistrar, srv HubServiceServer) {
	s.RegisterService(&HubService_ServiceDesc, srv)
}

// HubServiceClient is the client API for the hub service.
type HubServiceClient interface {
	SubmitMessage(ctx context.Context, in *protocol.Message, opts ...grpc.CallOption) (*protocol.Message, error)
	GetInfo(ctx context.Context, in *protocol.HubInfoRequest, opts ...grpc.CallOption) (*protocol.HubInfoResponse, error)
}

type hubServiceClient struct{ cc grpc.ClientConnInterface }

// NewHubServiceClient forces Codec on every call made through cc.
func NewHubServiceClient(cc grpc.ClientConnInterface) HubServiceClient {
	return &hubServiceClient{cc: cc}
}

func (c *hubServiceClient) SubmitMessage(ctx context.Context, in *protocol.Message, opts ...grpc.CallOption) (*protocol.Message, error) {
	out := new(protocol.Message)
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	if err := c.cc.Invoke(ctx, submitMessageFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hubServiceClient) GetInfo(ctx context.Context, in *protocol.HubInfoRequest, opts ...grpc.CallOption) (*protocol.HubInfoResponse, error) {
	out := new(protocol.HubInfoResponse)
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	if err := c.cc.Invoke(ctx, getInfoFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _HubService_SubmitMessage_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(protocol.Message)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HubServiceServer).SubmitMessage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: submitMessageFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HubServiceServer).SubmitMessage(ctx, req.(*protocol.Message))
	}
	return interceptor(ctx, in, info, handler)
}

func _HubService_GetInfo_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(protocol.HubInfoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HubServiceServer).GetInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getInfoFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HubServiceServer).GetInfo(ctx, req.(*protocol.HubInfoRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// HubService_ServiceDesc is the grpc.ServiceDesc for the hub service.
var HubService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*HubServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitMessage", Handler: _HubService_SubmitMessage_Handler},
		{MethodName: "GetInfo", Handler: _HubService_GetInfo_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpc.proto",
}
