package hubclient

import "google.golang.org/grpc"

// NewServer returns a gRPC server speaking Codec with impl registered.
func NewServer(impl HubServiceServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ForceServerCodec(Codec{})}, opts...)
	s := grpc.NewServer(opts...)
	RegisterHubServiceServer(s, impl)
	return s
}
