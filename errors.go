package alder

import "errors"

var (
	// ErrInvalidRegistration is returned by the registration methods when a
	// registration cannot be accepted: the constructor is not a function,
	// has an unsupported signature, or its return type cannot satisfy the
	// service type declared with [As].
	ErrInvalidRegistration = errors.New("invalid registration")

	// ErrRegistryFrozen is returned when Register is called after the
	// registry has been frozen by [Container.Build] or by the first
	// resolution, and when Build is called twice.
	ErrRegistryFrozen = errors.New("registry frozen")

	// ErrProviderNotFound is returned when no provider is registered for the
	// requested type or name and self-resolution does not apply.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrCircularDependency is returned when resolution revisits a provider
	// already on the current resolution path. The error message includes the
	// full chain.
	ErrCircularDependency = errors.New("circular dependency detected")

	// ErrConstructorFailed is returned when a constructor returns a non-nil
	// error or panics during resolution.
	ErrConstructorFailed = errors.New("constructor failed")

	// ErrNoActiveScope is returned when a Scoped provider is resolved
	// without a scope, either directly through [Container.Resolve] or as a
	// dependency of a Singleton.
	ErrNoActiveScope = errors.New("no active scope")

	// ErrScopeDisposed is returned when a scope is used after
	// [Scope.Dispose].
	ErrScopeDisposed = errors.New("scope disposed")

	// ErrCaptiveDependency is returned by [Container.Build] when a Singleton
	// provider depends, directly or transitively through other singletons,
	// on a Scoped provider. The singleton would outlive every scope, so the
	// scoped instance could never be torn down with its scope.
	ErrCaptiveDependency = errors.New("captive dependency")

	// ErrAlreadyShutdown is returned by repeated calls to
	// [Container.Shutdown].
	ErrAlreadyShutdown = errors.New("container already shut down")
)
