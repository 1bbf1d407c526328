package auth

import "context"

type userKey struct{}

// ContextWithUser returns a copy of ctx carrying the authenticated username
func ContextWithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey{}, username)
}

// UserFromContext returns the authenticated username, or "" for anonymous calls
func UserFromContext(ctx context.Context) string {
	username, _ := ctx.Value(userKey{}).(string)
	return username
}
