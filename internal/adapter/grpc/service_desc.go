package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "vehicleplan.v1.ProjectionService"

// Full method names, as seen by interceptors
const (
	LoginMethod           = "/" + ServiceName + "/Login"
	ProjectMethod         = "/" + ServiceName + "/Project"
	CheckPromotionsMethod = "/" + ServiceName + "/CheckPromotions"
)

// ProjectionServiceServer is the server API for the ProjectionService
// Requests and responses are google.protobuf.Struct documents with the JSON API's field names
type ProjectionServiceServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Project(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckPromotions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterProjectionServiceServer registers srv on s
func RegisterProjectionServiceServer(s grpc.ServiceRegistrar, srv ProjectionServiceServer) {
	s.RegisterService(&ProjectionServiceDesc, srv)
}

// ProjectionServiceDesc is the grpc.ServiceDesc for the ProjectionService
var ProjectionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProjectionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Login",
			Handler:    unaryHandler(LoginMethod, ProjectionServiceServer.Login),
		},
		{
			MethodName: "Project",
			Handler:    unaryHandler(ProjectMethod, ProjectionServiceServer.Project),
		},
		{
			MethodName: "CheckPromotions",
			Handler:    unaryHandler(CheckPromotionsMethod, ProjectionServiceServer.CheckPromotions),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vehicleplan/v1/projection.proto",
}

type unaryMethod func(ProjectionServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, method unaryMethod) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return method(srv.(ProjectionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return method(srv.(ProjectionServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
