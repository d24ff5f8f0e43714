package alder

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
)

// Scope is a unit-of-work cache for [Scoped] providers. Create one with
// [Container.NewScope] at the start of a logical operation and call
// [Scope.Dispose] when the operation ends, on every exit path:
//
//	s := c.NewScope()
//	defer s.Dispose()
//
// A scope is safe for concurrent use, though the intended shape is one scope
// per logical operation. Singleton and Transient resolutions through a scope
// fall through to the container.
type Scope struct {
	c *container

	mu       sync.Mutex
	entries  map[serviceKey]*scopeEntry
	closers  []io.Closer
	disposed bool
}

// scopeEntry guarantees at-most-once construction per key per scope. The
// result, error included, is cached for the life of the scope.
type scopeEntry struct {
	once sync.Once
	val  reflect.Value
	err  error
}

// getOrCreate returns the cached instance for key, constructing it with
// build on first use. The build function runs at most once per key even
// under concurrent resolution.
func (s *Scope) getOrCreate(key serviceKey, build func() (reflect.Value, error)) (reflect.Value, error) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return reflect.Value{}, fmt.Errorf("%w: resolving %s", ErrScopeDisposed, key)
	}
	e, ok := s.entries[key]
	if !ok {
		e = &scopeEntry{}
		s.entries[key] = e
	}
	s.mu.Unlock()

	// Construction happens outside the scope lock so a provider can depend
	// on other scoped providers from the same scope.
	e.once.Do(func() {
		e.val, e.err = build()
		if e.err != nil {
			return
		}
		if closer, ok := e.val.Interface().(io.Closer); ok {
			s.mu.Lock()
			s.closers = append(s.closers, closer)
			s.mu.Unlock()
		}
	})

	return e.val, e.err
}

// Resolve returns the value for the given type, caching [Scoped] providers
// in this scope. Prefer the generic [Resolve] helper over calling this
// method directly.
func (s *Scope) Resolve(t reflect.Type) (reflect.Value, error) {
	return s.c.resolveRoot(typeKey(t), s)
}

// ResolveNamed returns the value for the named provider, caching [Scoped]
// providers in this scope. The requested type t must be assignable from the
// provider's return type.
func (s *Scope) ResolveNamed(name string, t reflect.Type) (reflect.Value, error) {
	return s.c.resolveNamedRoot(name, t, s)
}

// Dispose closes every cached instance that implements [io.Closer], in
// reverse creation order (dependents before their dependencies), then clears
// the cache. Dispose is idempotent: repeated calls are a no-op returning
// nil. Any resolution through the scope after Dispose fails with
// [ErrScopeDisposed].
func (s *Scope) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	closers := s.closers
	s.closers = nil
	s.entries = nil
	s.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
