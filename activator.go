package alder

import (
	"fmt"
	"reflect"
)

// activate constructs one instance from a descriptor. Dependencies are
// resolved through the callback in declaration order and the constructor is
// invoked positionally. activate never caches; lifetime policy belongs to
// the container and scope.
func activate(d *descriptor, resolveDep func(serviceKey) (reflect.Value, error)) (reflect.Value, error) {
	if d.self {
		return selfValue(d.serviceType), nil
	}

	args := make([]reflect.Value, len(d.deps))
	for i, dep := range d.deps {
		val, err := resolveDep(dep)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("resolving %s: %w", dep, err)
		}
		args[i] = val
	}

	return call(d, args)
}

// call invokes the constructor, converting panics and returned errors into
// [ErrConstructorFailed].
func call(d *descriptor, args []reflect.Value) (out reflect.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = reflect.Value{}
			err = fmt.Errorf("%w: panic constructing %s: %v", ErrConstructorFailed, d.key, rec)
		}
	}()

	results := d.constructor.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: %s: %w", ErrConstructorFailed, d.key, results[1].Interface().(error))
	}
	return results[0], nil
}

// selfValue builds the zero value for a self-resolved concrete type: a
// pointer to a fresh struct for pointer types, the zero struct otherwise.
func selfValue(t reflect.Type) reflect.Value {
	if t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem())
	}
	return reflect.New(t).Elem()
}
