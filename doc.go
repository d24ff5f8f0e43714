// Package alder provides a lightweight, reflection-based dependency
// injection container for Go with transient, singleton, and scoped
// lifetimes.
//
// Alder uses constructor functions to wire dependencies automatically.
// Register constructors with the container, then retrieve fully-assembled
// objects with [Resolve] or [ResolveNamed]. [Container.Build] optionally
// validates the whole graph up front.
//
// # Quick Start
//
//	c := alder.New()
//	c.Register(NewLogger)
//	c.Register(NewDatabase)
//
//	db, err := alder.Resolve[*Database](c)
//
// # Lifetimes
//
// [Singleton] (default) — one shared instance for the lifetime of the
// container, constructed on first resolution.
//
// [Transient] — a fresh instance on every resolution.
//
// [Scoped] — one instance per [Scope]; ideal for per-request or
// per-unit-of-work state.
//
//	c.Register(NewSession, alder.WithLifetime(alder.Scoped))
//
//	s := c.NewScope()
//	defer s.Dispose()
//	sess, err := alder.Resolve[*Session](s)
//
// # Interface Binding
//
// Register a concrete constructor under the interface it implements:
//
//	c.Register(NewSQLRepository, alder.As[Repository]())
//
// # Named Providers
//
// When you need several implementations of the same return type, use named
// registration:
//
//	c.RegisterNamed("mysql", NewMySQLDB)
//	c.RegisterNamed("postgres", NewPostgresDB)
//
//	db, _ := alder.ResolveNamed[Database](c, "postgres")
//
// # Teardown
//
// [Scope.Dispose] closes scoped instances that implement [io.Closer];
// [Container.Shutdown] does the same for singletons. Both close dependents
// before their dependencies. Transient instances are never tracked — the
// caller owns them.
package alder
