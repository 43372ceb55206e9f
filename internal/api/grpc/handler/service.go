package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ArtistServiceName is the full name of the artist gRPC service.
const ArtistServiceName = "musehabit.v1.Artist"

// Full method names.
const (
	MethodRegister          = "/" + ArtistServiceName + "/Register"
	MethodGetCadence        = "/" + ArtistServiceName + "/GetCadence"
	MethodPublish           = "/" + ArtistServiceName + "/Publish"
	MethodUpdatePreferences = "/" + ArtistServiceName + "/UpdatePreferences"
)

// ArtistServer is the server API of musehabit.v1.Artist. Messages are
// well-known protobuf types, so no generated code is needed.
type ArtistServer interface {
	Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetCadence(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Publish(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdatePreferences(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ArtistServiceDesc describes musehabit.v1.Artist for grpc.Server.
var ArtistServiceDesc = grpc.ServiceDesc{
	ServiceName: ArtistServiceName,
	HandlerType: (*ArtistServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    unary(MethodRegister, newStruct, ArtistServer.Register),
		},
		{
			MethodName: "GetCadence",
			Handler:    unary(MethodGetCadence, newEmpty, ArtistServer.GetCadence),
		},
		{
			MethodName: "Publish",
			Handler:    unary(MethodPublish, newStruct, ArtistServer.Publish),
		},
		{
			MethodName: "UpdatePreferences",
			Handler:    unary(MethodUpdatePreferences, newStruct, ArtistServer.UpdatePreferences),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "musehabit/v1/artist.proto",
}

// RegisterArtistServer registers srv on s.
func RegisterArtistServer(s grpc.ServiceRegistrar, srv ArtistServer) {
	s.RegisterService(&ArtistServiceDesc, srv)
}

func newStruct() *structpb.Struct { return &structpb.Struct{} }
func newEmpty() *emptypb.Empty    { return &emptypb.Empty{} }

func unary[Req proto.Message](
	fullMethod string,
	newReq func() Req,
	call func(ArtistServer, context.Context, Req) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ArtistServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ArtistServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ArtistClient calls musehabit.v1.Artist.
type ArtistClient struct {
	cc grpc.ClientConnInterface
}

func NewArtistClient(cc grpc.ClientConnInterface) *ArtistClient {
	return &ArtistClient{cc: cc}
}

func (c *ArtistClient) Register(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodRegister, req, opts...)
}

func (c *ArtistClient) GetCadence(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodGetCadence, &emptypb.Empty{}, opts...)
}

func (c *ArtistClient) Publish(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodPublish, req, opts...)
}

func (c *ArtistClient) UpdatePreferences(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodUpdatePreferences, req, opts...)
}

func invoke(ctx context.Context, cc grpc.ClientConnInterface, method string, req proto.Message, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := &structpb.Struct{}
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
