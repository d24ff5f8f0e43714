package alder

import (
	"fmt"
	"io"
	"reflect"
)

// Resolver is the read side of the container, satisfied by both [Container]
// and [*Scope]. The generic helpers accept a Resolver so call sites look the
// same with and without a scope.
type Resolver interface {
	Resolve(t reflect.Type) (reflect.Value, error)
	ResolveNamed(name string, t reflect.Type) (reflect.Value, error)
}

// ---------------------------------------------------------------------------
// Container methods
// ---------------------------------------------------------------------------

func (c *container) Resolve(t reflect.Type) (reflect.Value, error) {
	return c.resolveRoot(typeKey(t), nil)
}

func (c *container) ResolveNamed(name string, t reflect.Type) (reflect.Value, error) {
	return c.resolveNamedRoot(name, t, nil)
}

// resolveRoot begins one top-level resolution. The registry is frozen before
// the first descriptor lookup, and the resolution path starts empty.
func (c *container) resolveRoot(key serviceKey, scope *Scope) (reflect.Value, error) {
	c.freeze()
	return c.resolveKey(key, scope, nil)
}

func (c *container) resolveNamedRoot(name string, t reflect.Type, scope *Scope) (reflect.Value, error) {
	c.freeze()

	d, ok := c.lookup(nameKey(name))
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: named %q", ErrProviderNotFound, name)
	}
	if !d.outType.AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("named provider %q returns %s, not assignable to %s", name, d.outType, t)
	}

	return c.resolveKey(nameKey(name), scope, nil)
}

// ---------------------------------------------------------------------------
// Resolution engine
// ---------------------------------------------------------------------------

// resolveKey dispatches one identifier: cycle check, descriptor lookup,
// lifetime branch. path is the chain of identifiers currently being
// constructed in this top-level resolution; revisiting one of them is a
// cycle, reported before any constructor can recurse unboundedly.
func (c *container) resolveKey(key serviceKey, scope *Scope, path []serviceKey) (reflect.Value, error) {
	for _, onPath := range path {
		if onPath == key {
			return reflect.Value{}, circularError(key, path)
		}
	}

	d, ok := c.lookup(key)
	if !ok {
		d, ok = c.selfDescriptor(key)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrProviderNotFound, key)
		}
	}

	path = append(path, key)

	switch d.lifetime {
	case Transient:
		return activate(d, c.depResolver(scope, path))

	case Singleton:
		return c.resolveSingleton(d, path)

	case Scoped:
		if scope == nil {
			return reflect.Value{}, fmt.Errorf("%w: %s is scoped", ErrNoActiveScope, key)
		}
		return scope.getOrCreate(key, func() (reflect.Value, error) {
			return activate(d, c.depResolver(scope, path))
		})

	default:
		return reflect.Value{}, fmt.Errorf("%w: %s has unknown lifetime %s", ErrInvalidRegistration, key, d.lifetime)
	}
}

// resolveSingleton constructs the instance at most once per container.
// Dependencies are resolved without a scope: a singleton outlives every
// scope and must never capture a scoped instance. A constructor error is
// cached with the slot — construction is deterministic, so retrying would
// not change the outcome.
func (c *container) resolveSingleton(d *descriptor, path []serviceKey) (reflect.Value, error) {
	if d.prebuilt {
		return d.instance, nil
	}

	d.once.Do(func() {
		d.instance, d.err = activate(d, c.depResolver(nil, path))
		if d.err != nil {
			return
		}
		if closer, ok := d.instance.Interface().(io.Closer); ok {
			c.mu.Lock()
			c.closers = append(c.closers, closer)
			c.mu.Unlock()
		}
	})

	return d.instance, d.err
}

// depResolver adapts resolveKey to the activator's callback, carrying the
// scope and the resolution path into each dependency.
func (c *container) depResolver(scope *Scope, path []serviceKey) func(serviceKey) (reflect.Value, error) {
	return func(dep serviceKey) (reflect.Value, error) {
		return c.resolveKey(dep, scope, path)
	}
}

func (c *container) lookup(key serviceKey) (*descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.lookup(key)
}

// selfDescriptor synthesizes an implicit Transient descriptor for an
// unregistered struct or pointer-to-struct type when self-resolution is
// enabled.
func (c *container) selfDescriptor(key serviceKey) (*descriptor, bool) {
	if !c.selfResolve || !selfDescribable(key) {
		return nil, false
	}
	return &descriptor{
		key:         key,
		serviceType: key.typ,
		outType:     key.typ,
		lifetime:    Transient,
		self:        true,
	}, true
}

// ---------------------------------------------------------------------------
// Generic helpers
// ---------------------------------------------------------------------------

// Resolve is a generic helper that resolves a typed provider from a
// container or scope. It is the recommended way to retrieve values:
//
//	db, err := alder.Resolve[*Database](c)
//	repo, err := alder.Resolve[Repository](scope)
func Resolve[T any](r Resolver) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()

	val, err := r.Resolve(t)
	if err != nil {
		return zero, err
	}

	out, ok := val.Interface().(T)
	if !ok {
		return zero, fmt.Errorf("cannot convert %s to %s", val.Type(), t)
	}

	return out, nil
}

// ResolveNamed is a generic helper that resolves a named provider from a
// container or scope:
//
//	db, err := alder.ResolveNamed[*Database](c, "primary")
func ResolveNamed[T any](r Resolver, name string) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()

	val, err := r.ResolveNamed(name, t)
	if err != nil {
		return zero, err
	}

	out, ok := val.Interface().(T)
	if !ok {
		return zero, fmt.Errorf("named %q: cannot convert %s to %s", name, val.Type(), t)
	}

	return out, nil
}
