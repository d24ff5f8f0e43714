package alder

import (
	"fmt"
	"reflect"
	"strings"
)

// registry maps service keys to descriptors. It is mutable during the
// registration phase and read-only afterwards: freeze is called by Build or
// by the first resolution, and every later register fails. Locking lives in
// the container; the registry itself is plain data plus validation.
type registry struct {
	entries map[serviceKey]*descriptor
	frozen  bool
}

func newRegistry() *registry {
	return &registry{entries: make(map[serviceKey]*descriptor)}
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// register validates and stores a descriptor. Last write wins for a given
// key: re-registering replaces the previous descriptor, including any cached
// singleton state.
func (r *registry) register(name string, constructor interface{}, opts ...Option) error {
	if r.frozen {
		return ErrRegistryFrozen
	}

	if constructor == nil {
		return fmt.Errorf("%w: constructor is nil", ErrInvalidRegistration)
	}

	val := reflect.ValueOf(constructor)
	typ := val.Type()

	if typ.Kind() != reflect.Func {
		return fmt.Errorf("%w: constructor must be a function, got %s", ErrInvalidRegistration, typ)
	}
	if typ.NumOut() == 0 || typ.NumOut() > 2 {
		return fmt.Errorf("%w: constructor must return (T) or (T, error)", ErrInvalidRegistration)
	}
	if typ.NumOut() == 2 && !typ.Out(1).Implements(errType) {
		return fmt.Errorf("%w: second return value must implement error", ErrInvalidRegistration)
	}

	d := &descriptor{
		constructor: val,
		outType:     typ.Out(0),
		serviceType: typ.Out(0),
		lifetime:    Singleton,
	}
	for _, opt := range opts {
		opt(d)
	}

	if !d.outType.AssignableTo(d.serviceType) {
		return fmt.Errorf("%w: %s is not assignable to %s", ErrInvalidRegistration, d.outType, d.serviceType)
	}

	d.deps = make([]serviceKey, typ.NumIn())
	for i := 0; i < typ.NumIn(); i++ {
		d.deps[i] = typeKey(typ.In(i))
	}

	if name != "" {
		d.key = nameKey(name)
	} else {
		d.key = typeKey(d.serviceType)
	}
	r.entries[d.key] = d
	return nil
}

// registerInstance stores a pre-built value as a Singleton descriptor. The
// container never constructs or closes it; ownership stays with the caller.
func (r *registry) registerInstance(name string, value interface{}, opts ...Option) error {
	if r.frozen {
		return ErrRegistryFrozen
	}

	if value == nil {
		return fmt.Errorf("%w: instance is nil", ErrInvalidRegistration)
	}

	val := reflect.ValueOf(value)
	d := &descriptor{
		outType:     val.Type(),
		serviceType: val.Type(),
		lifetime:    Singleton,
		prebuilt:    true,
		instance:    val,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.lifetime != Singleton {
		return fmt.Errorf("%w: instance registration must be %s, got %s", ErrInvalidRegistration, Singleton, d.lifetime)
	}
	if !d.outType.AssignableTo(d.serviceType) {
		return fmt.Errorf("%w: %s is not assignable to %s", ErrInvalidRegistration, d.outType, d.serviceType)
	}

	if name != "" {
		d.key = nameKey(name)
	} else {
		d.key = typeKey(d.serviceType)
	}
	r.entries[d.key] = d
	return nil
}

// lookup returns the descriptor for a key, if registered.
func (r *registry) lookup(key serviceKey) (*descriptor, bool) {
	d, ok := r.entries[key]
	return d, ok
}

func (r *registry) freeze() {
	r.frozen = true
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

type validateState int

const (
	unvisited validateState = iota
	visiting
	visited
)

// validateNode keys the DFS state map. The singleton flag is tracked
// separately because the same provider can be reached both on a plain path
// and inside a singleton's construction, and only the latter forbids scoped
// dependencies.
type validateNode struct {
	key         serviceKey
	inSingleton bool
}

// validate walks the dependency graph depth-first, detecting missing
// providers, cycles, and scoped providers captured by singletons. It
// constructs nothing.
func (r *registry) validate(selfResolve bool) error {
	states := make(map[validateNode]validateState)

	for key, d := range r.entries {
		if key.name != "" {
			continue
		}
		if err := r.validateKey(key, d.lifetime == Singleton, selfResolve, states, nil); err != nil {
			return err
		}
	}

	for key, d := range r.entries {
		if key.name == "" {
			continue
		}
		inSingleton := d.lifetime == Singleton
		for _, dep := range d.deps {
			if err := r.validateKey(dep, inSingleton, selfResolve, states, []serviceKey{key}); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *registry) validateKey(key serviceKey, inSingleton, selfResolve bool, states map[validateNode]validateState, stack []serviceKey) error {
	node := validateNode{key: key, inSingleton: inSingleton}
	switch states[node] {
	case visiting:
		return circularError(key, stack)
	case visited:
		return nil
	}

	d, ok := r.entries[key]
	if !ok {
		if selfResolve && selfDescribable(key) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrProviderNotFound, key)
	}

	if inSingleton && d.lifetime == Scoped {
		return fmt.Errorf("%w: %s is scoped but reachable from a singleton", ErrCaptiveDependency, key)
	}

	states[node] = visiting
	stack = append(stack, key)

	// A singleton resolves its own dependencies outside any scope, so the
	// captive check re-arms at every singleton boundary.
	depInSingleton := inSingleton || d.lifetime == Singleton

	for _, dep := range d.deps {
		if err := r.validateKey(dep, depInSingleton, selfResolve, states, stack); err != nil {
			return err
		}
	}

	states[node] = visited
	return nil
}

func circularError(key serviceKey, stack []serviceKey) error {
	chain := make([]string, 0, len(stack)+1)
	for _, k := range stack {
		chain = append(chain, k.String())
	}
	chain = append(chain, key.String())
	return fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(chain, " -> "))
}

// selfDescribable reports whether a key can be satisfied by zero-value
// self-resolution when the container allows it.
func selfDescribable(key serviceKey) bool {
	if key.name != "" || key.typ == nil {
		return false
	}
	switch key.typ.Kind() {
	case reflect.Struct:
		return true
	case reflect.Ptr:
		return key.typ.Elem().Kind() == reflect.Struct
	default:
		return false
	}
}
