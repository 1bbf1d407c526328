package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/vehicleplan-backend/internal/adapter/api"
	"github.com/simaogato/vehicleplan-backend/internal/domain"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/auth"
)

// Projector is the projection use case as seen by the transport
type Projector interface {
	Project(ctx context.Context, userID string, input domain.GoalInput) (*domain.ProjectionResult, error)
	CheckPromotions(ctx context.Context, model string) (bool, error)
}

// Authenticator issues bearer tokens
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Server implements the ProjectionService gRPC server
type Server struct {
	ProjectionService Projector
	AuthService       Authenticator
}

// NewServer creates a new gRPC server instance
func NewServer(projectionService Projector, authService Authenticator) *Server {
	return &Server{
		ProjectionService: projectionService,
		AuthService:       authService,
	}
}

// Login handles the Login RPC
func (s *Server) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in api.LoginRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	token, err := s.AuthService.Login(ctx, in.Username, in.Password)
	if err != nil {
		return nil, mapError(err)
	}

	return encode(api.LoginResponse{Token: token})
}

// Project handles the Project RPC
func (s *Server) Project(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in api.GoalRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	goal, err := in.ToGoal()
	if err != nil {
		return nil, mapError(err)
	}

	result, err := s.ProjectionService.Project(ctx, auth.UserFromContext(ctx), goal)
	if err != nil {
		return nil, mapError(err)
	}

	return encode(api.NewProjectionResponse(result))
}

// CheckPromotions handles the CheckPromotions RPC
func (s *Server) CheckPromotions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	model := req.GetFields()["model"].GetStringValue()

	found, err := s.ProjectionService.CheckPromotions(ctx, model)
	if err != nil {
		return nil, mapError(err)
	}

	return encode(api.PromotionResponse{Model: model, Promotion: found})
}

// decode maps a Struct onto a JSON-tagged request type
func decode(req *structpb.Struct, out interface{}) error {
	data, err := req.MarshalJSON()
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

// encode maps a JSON-tagged response type onto a Struct
func encode(resp interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status codes
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case errors.Is(err, domain.ErrProjectionDiverged):
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return status.Errorf(codes.Unauthenticated, "%s", errorMsg)
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
