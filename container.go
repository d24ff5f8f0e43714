package alder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
)

// Container defines the interface for the dependency injection container.
// Use [New] to create an instance.
type Container interface {
	// Register adds a constructor to the container. The constructor must be
	// a function with the signature func(deps...) T or func(deps...) (T,
	// error). Dependencies are expressed as function parameters and resolved
	// by type. Registering the same service type again replaces the earlier
	// registration.
	Register(constructor interface{}, opts ...Option) error

	// RegisterNamed adds a named constructor. Named providers live in a
	// separate namespace and are resolved via [Container.ResolveNamed] or
	// the generic [ResolveNamed] helper.
	RegisterNamed(name string, constructor interface{}, opts ...Option) error

	// RegisterInstance binds an already-constructed value as a [Singleton].
	// The container never closes pre-built instances; ownership stays with
	// the caller.
	RegisterInstance(value interface{}, opts ...Option) error

	// Build validates the full dependency graph — missing providers,
	// circular dependencies, and scoped providers captured by singletons —
	// and freezes the registry; no further registrations are accepted.
	//
	// Build is optional. Resolving from an unbuilt container freezes the
	// registry on first use and relies on runtime cycle detection instead
	// of the eager graph walk.
	Build() error

	// NewScope allocates a [Scope] bound to this container for resolving
	// [Scoped] providers.
	NewScope() *Scope

	// Resolve returns the value for the given type. [Singleton] providers
	// are constructed at most once and cached; [Transient] providers are
	// constructed on every call; [Scoped] providers fail with
	// [ErrNoActiveScope] — resolve those through a [Scope]. Prefer the
	// generic [Resolve] helper over calling this method directly.
	Resolve(t reflect.Type) (reflect.Value, error)

	// ResolveNamed returns the value for the named provider. The requested
	// type t must be assignable from the provider's return type. Prefer the
	// generic [ResolveNamed] helper over calling this method directly.
	ResolveNamed(name string, t reflect.Type) (reflect.Value, error)

	// Shutdown gracefully closes all constructed singletons that implement
	// [io.Closer], in reverse construction order (dependents are closed
	// before their dependencies). Pre-built instances from
	// [Container.RegisterInstance] are skipped. The context controls the
	// overall deadline; if it expires, remaining closers are skipped and
	// the context error is included in the result.
	//
	// Shutdown is safe to call multiple times; subsequent calls return
	// [ErrAlreadyShutdown]. It is the caller's responsibility to stop
	// resolving before or during shutdown.
	Shutdown(ctx context.Context) error
}

type container struct {
	mu  sync.RWMutex
	reg *registry

	// closers holds lazily constructed singletons that implement io.Closer,
	// in construction order. Shutdown iterates them in reverse.
	closers []io.Closer

	selfResolve bool
	built       bool
	shutdown    bool
}

// New creates an empty [Container] ready for registration.
func New(opts ...ContainerOption) Container {
	c := &container{reg: newRegistry()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *container) Register(constructor interface{}, opts ...Option) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reg.register("", constructor, opts...)
}

func (c *container) RegisterNamed(name string, constructor interface{}, opts ...Option) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidRegistration)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reg.register(name, constructor, opts...)
}

func (c *container) RegisterInstance(value interface{}, opts ...Option) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reg.registerInstance("", value, opts...)
}

func (c *container) Build() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.built {
		return ErrRegistryFrozen
	}

	if err := c.reg.validate(c.selfResolve); err != nil {
		return err
	}

	c.built = true
	c.reg.freeze()
	return nil
}

func (c *container) NewScope() *Scope {
	return &Scope{c: c, entries: make(map[serviceKey]*scopeEntry)}
}

// freeze closes the registration phase. Called on the first resolution so an
// in-flight resolve can never observe a concurrent registration.
func (c *container) freeze() {
	c.mu.RLock()
	frozen := c.reg.frozen
	c.mu.RUnlock()
	if frozen {
		return
	}

	c.mu.Lock()
	c.reg.freeze()
	c.mu.Unlock()
}

func (c *container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return ErrAlreadyShutdown
	}
	c.shutdown = true

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil

	return errors.Join(errs...)
}
