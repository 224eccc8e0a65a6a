package lazyiter

// Source is the minimal element producer every Iterator reduces to.
//
// Pull either returns the next value together with the continuation that produces the rest of the sequence,
// or a Step that signals exhaustion.
// A returned error is reserved for exceptional conditions, exhaustion is never reported as an error.
//
// A Source is pulled at most once by its owner.
// After a successful Pull, the owner continues with the Step's Rest and discards the Source it pulled.
type Source[T any] interface {
	Pull() (Step[T], error)
}

// SourceFunc enables a plain function to act as a Source.
type SourceFunc[T any] func() (Step[T], error)

func (fn SourceFunc[T]) Pull() (Step[T], error) { return fn() }

// Step is the result of pulling a Source.
// It is either Yield, holding a value and the continuation, or Done.
type Step[T any] struct {
	value T
	rest  Source[T]
	ok    bool
}

// Yield creates a Step that holds the next value and the Source that produces the remaining values.
// A nil rest means that v is the last value.
func Yield[T any](v T, rest Source[T]) Step[T] {
	if rest == nil {
		rest = emptySource[T]{}
	}
	return Step[T]{value: v, rest: rest, ok: true}
}

// Done creates a Step that signals that the Source is exhausted.
func Done[T any]() Step[T] { return Step[T]{} }

// Value returns the value of the Step, and false if the Step is Done.
func (s Step[T]) Value() (T, bool) { return s.value, s.ok }

// Rest returns the continuation.
// The continuation of a Done Step is an exhausted Source.
func (s Step[T]) Rest() Source[T] {
	if !s.ok || s.rest == nil {
		return emptySource[T]{}
	}
	return s.rest
}

// Exhausted reports whether the Step is Done.
func (s Step[T]) Exhausted() bool { return !s.ok }

type emptySource[T any] struct{}

func (emptySource[T]) Pull() (Step[T], error) { return Done[T](), nil }

type errSource[T any] struct{ err error }

func (s errSource[T]) Pull() (Step[T], error) { return Done[T](), s.err }

type prependSource[T any] struct {
	value T
	rest  Source[T]
}

func (s prependSource[T]) Pull() (Step[T], error) { return Yield(s.value, s.rest), nil }
