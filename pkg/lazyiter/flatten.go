package lazyiter

import (
	"fmt"
	"iter"

	"go.llib.dev/frameless/pkg/errorkit"
)

// Traversable is implemented by values that can hand out a fresh Iterator over their elements.
type Traversable[T any] interface {
	Iterator() *Iterator[T]
}

// Flatten returns an Iterator that yields the elements of every nested sequence in "it", one level deep.
// The nested sequences are drained in the order they appear, each from first to last element.
//
// A nested sequence can be a *Iterator[T], a Source[T], a []T, an iter.Seq[T] or a Traversable[T].
// Any other element fails the pull that reaches it with ErrTypeMismatch,
// the elements before it are yielded normally.
//
//	lazyiter.Flatten[int](lazyiter.OfAll[any]([]int{1, 2}, []int{3})) // 1, 2, 3
func Flatten[T, E any](it *Iterator[E]) *Iterator[T] {
	return flatten(it, func(e E) (Source[T], func() error, error) {
		return nested[T](any(e))
	})
}

// FlatMap maps every element to an Iterator, and yields the elements of these Iterators in order.
// Each mapped Iterator is created only when the previous one is drained.
func FlatMap[To, From any](it *Iterator[From], fn func(From) *Iterator[To]) *Iterator[To] {
	return flatten(it, func(v From) (Source[To], func() error, error) {
		src, release := fn(v).move()
		return src, release, nil
	})
}

func flatten[T, E any](it *Iterator[E], open func(E) (Source[T], func() error, error)) *Iterator[T] {
	outer, release := it.move()
	src := &flattenSource[T, E]{outer: outer, open: open}
	return &Iterator[T]{
		src:     src,
		release: releaser(src.closeInner, release),
	}
}

// flattenSource is either waiting for the next outer element (inner == nil),
// or draining the inner sequence of the last outer element.
type flattenSource[T, E any] struct {
	outer   Source[E]
	inner   Source[T]
	release func() error
	open    func(E) (Source[T], func() error, error)
}

func (s *flattenSource[T, E]) Pull() (Step[T], error) {
	for {
		if s.inner != nil {
			step, err := s.inner.Pull()
			if err != nil {
				return Done[T](), errorkit.Merge(err, s.closeInner())
			}
			if v, ok := step.Value(); ok {
				s.inner = step.Rest()
				return Yield[T](v, s), nil
			}
			if err := s.closeInner(); err != nil {
				return Done[T](), err
			}
			continue
		}

		step, err := s.outer.Pull()
		if err != nil {
			return Done[T](), err
		}
		e, ok := step.Value()
		if !ok {
			return Done[T](), nil
		}
		s.outer = step.Rest()

		inner, release, err := s.open(e)
		if err != nil {
			return Done[T](), err
		}
		s.inner, s.release = inner, release
	}
}

func (s *flattenSource[T, E]) closeInner() error {
	release := s.release
	s.inner, s.release = nil, nil
	if release == nil {
		return nil
	}
	return release()
}

func nested[T any](v any) (Source[T], func() error, error) {
	switch n := v.(type) {
	case *Iterator[T]:
		src, release := n.move()
		return src, release, nil
	case Source[T]:
		return n, nil, nil
	case []T:
		return sliceSource[T](n), nil, nil
	case iter.Seq[T]:
		return seqNested(n)
	case func(yield func(T) bool):
		return seqNested[T](n)
	case Traversable[T]:
		src, release := n.Iterator().move()
		return src, release, nil
	default:
		return nil, nil, fmt.Errorf("%w: %T", ErrTypeMismatch, v)
	}
}

func seqNested[T any](seq iter.Seq[T]) (Source[T], func() error, error) {
	if seq == nil {
		return emptySource[T]{}, nil, nil
	}
	src := &seqSource[T]{seq: seq}
	return src, src.Close, nil
}
