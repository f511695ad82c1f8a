package grpc

// proto.go defines the gRPC server interface derived from prognosis/v1/prognosis.proto.
// This file serves as a stand-in for buf-generated code. Once `buf generate` is run,
// replace this file with the import from github.com/cfcare/prognosis/api/gen/go/prognosis/v1.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PrognosisServiceServer is the server API for PrognosisService.
type PrognosisServiceServer interface {
	EvaluatePatient(context.Context, *EvaluatePatientRequest) (*EvaluatePatientResponse, error)
	GetEvaluation(context.Context, *GetEvaluationRequest) (*GetEvaluationResponse, error)
	mustEmbedUnimplementedPrognosisServiceServer()
}

// UnimplementedPrognosisServiceServer provides forward-compatible default implementations.
type UnimplementedPrognosisServiceServer struct{}

func (UnimplementedPrognosisServiceServer) EvaluatePatient(context.Context, *EvaluatePatientRequest) (*EvaluatePatientResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EvaluatePatient not implemented")
}
func (UnimplementedPrognosisServiceServer) GetEvaluation(context.Context, *GetEvaluationRequest) (*GetEvaluationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetEvaluation not implemented")
}
func (UnimplementedPrognosisServiceServer) mustEmbedUnimplementedPrognosisServiceServer() {}

// RegisterPrognosisServiceServer registers the PrognosisServiceServer with the gRPC server.
func RegisterPrognosisServiceServer(s *grpclib.Server, srv PrognosisServiceServer) {
	s.RegisterService(&_PrognosisService_serviceDesc, srv)
}

var _PrognosisService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "prognosis.v1.PrognosisService",
	HandlerType: (*PrognosisServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "EvaluatePatient", Handler: _PrognosisService_EvaluatePatient_Handler},
		{MethodName: "GetEvaluation", Handler: _PrognosisService_GetEvaluation_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _PrognosisService_EvaluatePatient_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(EvaluatePatientRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(PrognosisServiceServer).EvaluatePatient(ctx, req)
}

func _PrognosisService_GetEvaluation_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetEvaluationRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(PrognosisServiceServer).GetEvaluation(ctx, req)
}
