package alder

import (
	"fmt"
	"reflect"
	"sync"
)

// serviceKey identifies one registration. Typed providers key on the service
// type; named providers key on the name with a nil type. The two namespaces
// never collide.
type serviceKey struct {
	typ  reflect.Type
	name string
}

func typeKey(t reflect.Type) serviceKey { return serviceKey{typ: t} }
func nameKey(name string) serviceKey    { return serviceKey{name: name} }

func (k serviceKey) String() string {
	if k.name != "" {
		return fmt.Sprintf("%q", k.name)
	}
	return k.typ.String()
}

// descriptor holds the metadata for a single registered provider. Apart from
// the singleton slot it is immutable once registered; re-registering a key
// replaces the whole descriptor.
type descriptor struct {
	key         serviceKey
	constructor reflect.Value // zero for prebuilt and self descriptors
	outType     reflect.Type
	serviceType reflect.Type // outType unless overridden with As
	lifetime    Lifetime
	deps        []serviceKey // constructor parameter types, declaration order

	// self marks a synthesized descriptor for an unregistered concrete type
	// (zero-value construction, implicit Transient).
	self bool

	// prebuilt marks a RegisterInstance descriptor; instance is set at
	// registration and once never fires.
	prebuilt bool

	// Singleton slot. once guarantees at most one construction per
	// container; a constructor error is cached alongside the value since
	// construction is deterministic and retrying would not change the
	// outcome.
	once     sync.Once
	instance reflect.Value
	err      error
}

// Option configures a single registration.
type Option func(*descriptor)

// WithLifetime sets the [Lifetime] of the provider. The default is
// [Singleton].
func WithLifetime(l Lifetime) Option {
	return func(d *descriptor) {
		d.lifetime = l
	}
}

// As registers the provider under the service type T instead of the
// constructor's return type. T is typically an interface implemented by the
// constructed value; assignability is checked at registration time.
//
//	c.Register(NewSQLRepository, alder.As[Repository]())
func As[T any]() Option {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return func(d *descriptor) {
		d.serviceType = t
	}
}

// ContainerOption configures a [Container] at construction.
type ContainerOption func(*container)

// WithSelfResolution lets the container resolve unregistered struct and
// pointer-to-struct types as implicit transients via their zero value.
// Without this option an unregistered type fails with [ErrProviderNotFound].
func WithSelfResolution() ContainerOption {
	return func(c *container) {
		c.selfResolve = true
	}
}
