package alder

// Lifetime controls how many instances of a provider the container creates
// and who owns their teardown.
type Lifetime int

const (
	// Singleton is the default lifetime. The constructor runs at most once
	// per container, on first resolution, and the resulting instance is
	// reused for every subsequent resolution. Singleton instances that
	// implement [io.Closer] are closed by [Container.Shutdown].
	Singleton Lifetime = iota

	// Transient means a new instance is constructed on every resolution.
	// The container never caches transients and never closes them; teardown
	// is the caller's responsibility.
	Transient

	// Scoped means one instance per [Scope]. Resolving a Scoped provider
	// requires a scope; two resolutions through the same scope share an
	// instance, two scopes never do. Scoped instances that implement
	// [io.Closer] are closed by [Scope.Dispose].
	Scoped
)

// String returns the human-readable name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	default:
		return "unknown"
	}
}
