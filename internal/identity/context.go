package identity

import "context"

type contextKey string

const principalContextKey contextKey = "identity_principal"

// WithPrincipal returns a context carrying the given principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// FromContext returns the principal stored in the context. A context without
// a principal yields the anonymous principal, so callers never need to branch
// on the ok flag unless they care about the difference between "anonymous" and
// "middleware never ran".
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	if !ok {
		return Anonymous, false
	}
	return p, true
}
