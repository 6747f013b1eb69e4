// Package grpc exposes an executor as the chainserve.Executor gRPC service.
// Requests and responses are google.protobuf.Struct values, so no generated
// code is needed; the service descriptor is registered by hand.
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rchudinov/chainserve/pkg/executor"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "chainserve.Executor"
	// RunMethod is the full method path of the run operation.
	RunMethod = "/chainserve.Executor/Run"
)

// ExecutorServer is the service contract: named inputs in, result mapping out.
type ExecutorServer interface {
	Run(ctx context.Context, inputs *structpb.Struct) (*structpb.Struct, error)
}

type server struct {
	exec *executor.Executor
}

func (s *server) Run(ctx context.Context, inputs *structpb.Struct) (*structpb.Struct, error) {
	result, err := s.exec.Run(ctx, inputs.AsMap())
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(result)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func runHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecutorServer).Run(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RunMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ExecutorServer).Run(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExecutorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Run",
			Handler:    runHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chainserve",
}

// Register mounts the executor onto a gRPC server.
func Register(s grpc.ServiceRegistrar, exec *executor.Executor) {
	s.RegisterService(&serviceDesc, &server{exec: exec})
}
