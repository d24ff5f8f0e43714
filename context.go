package alder

import "context"

type scopeContextKey struct{}

// NewContext returns a copy of ctx carrying the scope, so a unit of work can
// hand its scope to collaborators without threading it explicitly:
//
//	s := c.NewScope()
//	defer s.Dispose()
//	ctx = alder.NewContext(ctx, s)
func NewContext(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, s)
}

// FromContext returns the scope carried by ctx, if any.
func FromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeContextKey{}).(*Scope)
	return s, ok
}
