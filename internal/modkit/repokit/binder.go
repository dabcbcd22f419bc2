package repokit

// Binder is a tiny factory that binds a domain repo to a specific Queryer
// services bind once per call so the same repo runs inside or outside a tx
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc lets you create a Binder from a function
type BindFunc[T any] func(Queryer) T

// Bind calls the underlying function
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }
