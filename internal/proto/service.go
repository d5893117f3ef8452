package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophmedia.MediaService"

const (
	MediaService_Ping_FullMethodName        = "/gophmedia.MediaService/Ping"
	MediaService_InitAsset_FullMethodName   = "/gophmedia.MediaService/InitAsset"
	MediaService_CreateAsset_FullMethodName = "/gophmedia.MediaService/CreateAsset"
)

type MediaServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	InitAsset(ctx context.Context, in *InitAssetRequest, opts ...grpc.CallOption) (*InitAssetResponse, error)
	CreateAsset(ctx context.Context, in *CreateAssetRequest, opts ...grpc.CallOption) (*CreateAssetResponse, error)
}

type mediaServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMediaServiceClient(cc grpc.ClientConnInterface) MediaServiceClient {
	return &mediaServiceClient{cc: cc}
}

func (c *mediaServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *mediaServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	out := new(PingResponse)
	if err := c.invoke(ctx, MediaService_Ping_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) InitAsset(ctx context.Context, in *InitAssetRequest, opts ...grpc.CallOption) (*InitAssetResponse, error) {
	out := new(InitAssetResponse)
	if err := c.invoke(ctx, MediaService_InitAsset_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) CreateAsset(ctx context.Context, in *CreateAssetRequest, opts ...grpc.CallOption) (*CreateAssetResponse, error) {
	out := new(CreateAssetResponse)
	if err := c.invoke(ctx, MediaService_CreateAsset_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// MediaServiceServer is implemented by the backend. Embed
// UnimplementedMediaServiceServer for forward compatibility.
type MediaServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	InitAsset(context.Context, *InitAssetRequest) (*InitAssetResponse, error)
	CreateAsset(context.Context, *CreateAssetRequest) (*CreateAssetResponse, error)
}

type UnimplementedMediaServiceServer struct{}

func (UnimplementedMediaServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedMediaServiceServer) InitAsset(context.Context, *InitAssetRequest) (*InitAssetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method InitAsset not implemented")
}

func (UnimplementedMediaServiceServer) CreateAsset(context.Context, *CreateAssetRequest) (*CreateAssetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAsset not implemented")
}

func RegisterMediaServiceServer(s grpc.ServiceRegistrar, srv MediaServiceServer) {
	s.RegisterService(&MediaService_ServiceDesc, srv)
}

func pingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MediaServiceServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MediaService_Ping_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MediaServiceServer).Ping(ctx, req.(*PingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func initAssetHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(InitAssetRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MediaServiceServer).InitAsset(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MediaService_InitAsset_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MediaServiceServer).InitAsset(ctx, req.(*InitAssetRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func createAssetHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateAssetRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MediaServiceServer).CreateAsset(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MediaService_CreateAsset_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MediaServiceServer).CreateAsset(ctx, req.(*CreateAssetRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var MediaService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MediaServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: pingHandler},
		{MethodName: "InitAsset", Handler: initAssetHandler},
		{MethodName: "CreateAsset", Handler: createAssetHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophmedia/media.proto",
}
