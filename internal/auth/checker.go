package auth

import "context"

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

type Checker interface {
	// UserFromToken returns the id of the user behind the session token,
	// or ErrNotLoggedIn when the token is unknown or expired.
	UserFromToken(ctx context.Context, token string) (string, error)
}

type ctxKey int

const userIDCtxKey ctxKey = 0

// ContextWithUserID stores the authenticated user id in the request context.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDCtxKey).(string)
	return userID, ok
}
