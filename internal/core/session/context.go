package session

import "context"

type storeContextKey struct{}
type tokenContextKey struct{}

// ContextWithStore attaches the request's session store to ctx.
func ContextWithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeContextKey{}, s)
}

// StoreFromContext returns the store attached by ContextWithStore.
func StoreFromContext(ctx context.Context) (*Store, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(storeContextKey{}).(*Store)
	return s, ok && s != nil
}

// ContextWithToken stores the bearer token for outgoing catalog API calls.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token if one was attached. It falls
// back to the token of an attached store.
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(tokenContextKey{}).(string); ok && v != "" {
		return v, true
	}
	if s, ok := StoreFromContext(ctx); ok {
		if tok := s.Token(); tok != "" {
			return tok, true
		}
	}
	return "", false
}
