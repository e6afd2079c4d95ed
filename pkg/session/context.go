package session

import "context"

type holderContextKey struct{}

// holder is the request's mutable reference to its session. Destroy clears
// it so later lookups observe no session without re-deriving the context.
type holder struct {
	s *Session
}

func withHolder(ctx context.Context, h *holder) context.Context {
	return context.WithValue(ctx, holderContextKey{}, h)
}

func holderFromContext(ctx context.Context) (*holder, bool) {
	h, ok := ctx.Value(holderContextKey{}).(*holder)
	return h, ok
}

// FromContext retrieves the session bound to the request context. The
// second return value is false when no middleware ran or the session was
// destroyed.
func FromContext(ctx context.Context) (*Session, bool) {
	h, ok := holderFromContext(ctx)
	if !ok || h.s == nil {
		return nil, false
	}
	return h.s, true
}

// MustFromContext retrieves the session from the context or panics.
func MustFromContext(ctx context.Context) *Session {
	s, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return s
}
