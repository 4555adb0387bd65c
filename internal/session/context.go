package session

import "context"

type contextKey struct{}

// ContextWith stores the session in ctx.
func ContextWith(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext extracts the session from ctx; anonymous when absent.
func FromContext(ctx context.Context) Session {
	sess, _ := ctx.Value(contextKey{}).(Session)
	return sess
}
