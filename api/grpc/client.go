package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Run invokes the run operation over an established client connection and
// returns the result mapping.
func Run(ctx context.Context, conn grpc.ClientConnInterface, inputs map[string]any) (map[string]any, error) {
	req, err := structpb.NewStruct(inputs)
	if err != nil {
		return nil, err
	}
	resp := new(structpb.Struct)
	if err := conn.Invoke(ctx, RunMethod, req, resp); err != nil {
		return nil, err
	}
	return resp.AsMap(), nil
}
