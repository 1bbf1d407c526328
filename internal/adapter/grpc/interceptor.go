package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/vehicleplan-backend/internal/usecase/auth"
)

// TokenVerifier resolves a bearer token to a username
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the bearer token from request metadata.
// Methods listed in publicMethods skip the check.
// If the token is missing or invalid, it returns status.Unauthenticated.
// If valid, it calls the handler with the username stored in the context.
func AuthInterceptor(verifier TokenVerifier, publicMethods ...string) grpc.UnaryServerInterceptor {
	public := make(map[string]bool, len(publicMethods))
	for _, m := range publicMethods {
		public[m] = true
	}

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if public[info.FullMethod] {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer "))
		username, err := verifier.VerifyToken(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(auth.ContextWithUser(ctx, username), req)
	}
}
