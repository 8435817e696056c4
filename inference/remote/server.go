package remote

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"maia-engine/inference"
)

type service interface {
	run(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type server struct {
	engine inference.Engine
	log    *zap.SugaredLogger
}

// Register exposes e on s under ServiceName.
func Register(s grpc.ServiceRegistrar, e inference.Engine, log *zap.SugaredLogger) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s.RegisterService(&serviceDesc, &server{engine: e, log: log})
}

func (s *server) run(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := DecodeInput(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	out, err := s.engine.Run(ctx, in)
	if err != nil {
		s.log.Errorw("inference failed", "error", err)
		return nil, status.Error(codes.Internal, err.Error())
	}
	return EncodeOutput(out)
}

func runHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(structpb.Struct)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(service).run(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RunMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(service).run(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, req, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*service)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Run", Handler: runHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "maia/v1/inference.proto",
}
