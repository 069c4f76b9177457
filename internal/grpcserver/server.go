// Package grpcserver exposes the tracker over gRPC.
//
// The service is declared by hand instead of generated: every request and
// response is a google.protobuf.Struct, so clients need no stubs beyond the
// well-known types. The server handles only transport concerns (error
// mapping and conversion to Struct) and delegates to tracker.Service.
package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/job-tracker/internal/tracker"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "jobtracker.v1.Tracker"

// TrackerServer is the server API of ServiceName.
type TrackerServer interface {
	GetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDigest(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes ServiceName for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TrackerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStatus", Handler: unary("GetStatus", TrackerServer.GetStatus)},
		{MethodName: "SetStatus", Handler: unary("SetStatus", TrackerServer.SetStatus)},
		{MethodName: "GetHistory", Handler: unary("GetHistory", TrackerServer.GetHistory)},
		{MethodName: "GetDigest", Handler: unary("GetDigest", TrackerServer.GetDigest)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobtracker/v1/tracker.proto",
}

func unary(method string, call func(TrackerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TrackerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TrackerServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Server implements TrackerServer.
type Server struct {
	svc *tracker.Service
}

// NewServer constructs a Server backed by svc.
func NewServer(svc *tracker.Service) *Server {
	return &Server{svc: svc}
}

// Register mounts the tracker and the standard health service on gs.
func Register(gs *grpc.Server, srv TrackerServer) *health.Server {
	gs.RegisterService(&ServiceDesc, srv)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return hs
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// GetStatus returns {jobId, status} for req.jobId.
func (s *Server) GetStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := jobIDFrom(req)
	if err != nil {
		return nil, err
	}
	st, err := s.svc.Status(ctx, id)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(map[string]any{"jobId": id, "status": st})
}

// SetStatus moves req.jobId to req.status.
func (s *Server) SetStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := jobIDFrom(req)
	if err != nil {
		return nil, err
	}
	st, err := s.svc.SetStatus(ctx, id, req.GetFields()["status"].GetStringValue())
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(map[string]any{"jobId": id, "status": st})
}

// GetHistory returns {entries: [...]}, newest first.
func (s *Server) GetHistory(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(map[string]any{"entries": s.svc.History(ctx)})
}

// GetDigest returns the stored digest for req.date (today when empty) with
// its plain-text rendering.
func (s *Server) GetDigest(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	entries, date, err := s.svc.Digest(ctx, req.GetFields()["date"].GetStringValue())
	if err != nil {
		return nil, toGRPCError(err)
	}
	text, err := s.svc.DigestText(ctx, date)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(map[string]any{"date": date, "jobs": entries, "text": text})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// jobIDFrom reads the integral jobId field of req.
func jobIDFrom(req *structpb.Struct) (int, error) {
	v, ok := req.GetFields()["jobId"]
	if !ok {
		return 0, status.Error(codes.InvalidArgument, "jobId is required")
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue < 1 || n.NumberValue > math.MaxInt32 {
		return 0, status.Error(codes.InvalidArgument, "jobId must be a positive integer")
	}
	return int(n.NumberValue), nil
}

// toStruct converts a JSON-shaped value into a Struct, reusing the domain
// types' json tags.
func toStruct(v map[string]any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	if errors.Is(err, tracker.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	var ve *tracker.ValidationError
	if errors.As(err, &ve) {
		return status.Error(codes.InvalidArgument, ve.Msg)
	}
	if errors.Is(err, tracker.ErrStorage) {
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, "internal server error")
}
