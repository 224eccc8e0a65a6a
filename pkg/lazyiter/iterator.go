package lazyiter

import (
	"iter"

	"go.llib.dev/frameless/pkg/errorkit"
)

// Iterator is a lazy, single-pass sequence handle.
//
// It holds at most one buffered element, which is needed to answer HasNext,
// and the Source of the not yet consumed remainder.
// Pulling from an Iterator permanently advances it.
//
// An Iterator is not safe for concurrent use.
type Iterator[T any] struct {
	// Iterator values are not comparable on purpose,
	// value equality would require the evaluation of the whole sequence.
	_ [0]func()

	src   Source[T]
	head  Step[T]
	state state
	err   error

	value T
	// release is never nil, it frees the resources behind the sequence.
	release func() error
}

type state uint8

const (
	statePending state = iota
	stateBuffered
	stateExhausted
	stateFailed
	stateMoved
)

// New creates an Iterator from a Source.
// New does not pull from src.
func New[T any](src Source[T], opts ...Option) *Iterator[T] {
	if src == nil {
		src = emptySource[T]{}
	}
	c := toConfig(opts)
	return &Iterator[T]{
		src:     src,
		release: releaser(c.OnClose...),
	}
}

// HasNext reports whether the Iterator has a next element.
// It pulls at most one element from the underlying source and keeps it buffered,
// so the following Pull returns that element without pulling again.
//
// When the source fails, HasNext returns false and Err returns the cause.
func (it *Iterator[T]) HasNext() bool {
	if it == nil {
		return false
	}
	if it.state == statePending {
		it.fill()
	}
	return it.state == stateBuffered
}

// Pull advances the Iterator by exactly one element and returns it.
//
// When the Iterator has no more elements, Pull returns ErrExhausted,
// and it keeps returning ErrExhausted on every later call.
// When the underlying source failed, Pull returns that failure on every later call.
func (it *Iterator[T]) Pull() (T, error) {
	v, ok, err := it.pull()
	if err != nil {
		return v, err
	}
	if !ok {
		return v, ErrExhausted
	}
	return v, nil
}

// Next is the pull iterator form of Pull,
// it makes Value return the next element.
//
//	for it.Next() {
//		v := it.Value()
//	}
//	if err := it.Err(); err != nil { ... }
func (it *Iterator[T]) Next() bool {
	v, ok, err := it.pull()
	if err != nil || !ok {
		return false
	}
	it.value = v
	return true
}

// Value returns the element that the last successful Next call advanced to.
// The action is repeatable without side effects.
func (it *Iterator[T]) Value() T {
	if it == nil {
		var zero T
		return zero
	}
	return it.value
}

// Err returns the cause of a failed iteration.
// A sequence that ended normally has no error.
func (it *Iterator[T]) Err() error {
	if it == nil {
		return nil
	}
	switch it.state {
	case stateFailed:
		return it.err
	case stateMoved:
		return ErrMoved
	default:
		return nil
	}
}

// Close releases the resources of the Iterator and makes it exhausted.
// Closing a moved, exhausted or failed Iterator is a no-op.
func (it *Iterator[T]) Close() error {
	if it == nil {
		return nil
	}
	switch it.state {
	case statePending, stateBuffered:
		it.state = stateExhausted
		it.src = nil
		it.head = Step[T]{}
		return it.release()
	default:
		return nil
	}
}

// All returns a single-use range-over-func view of the Iterator.
// A failure is yielded together with the zero value as the last pair.
// Breaking out of the loop leaves the Iterator where it stopped,
// so a later range continues the sequence.
func (it *Iterator[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, ok, err := it.pull()
			if err != nil {
				yield(v, err)
				return
			}
			if !ok {
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

func (it *Iterator[T]) pull() (_ T, ok bool, _ error) {
	var zero T
	if it == nil {
		return zero, false, nil
	}
	if it.state == statePending {
		it.fill()
	}
	switch it.state {
	case stateBuffered:
		v, _ := it.head.Value()
		it.src = it.head.Rest()
		it.head = Step[T]{}
		it.state = statePending
		return v, true, nil
	case stateFailed:
		return zero, false, it.err
	case stateMoved:
		return zero, false, ErrMoved
	default:
		return zero, false, nil
	}
}

func (it *Iterator[T]) fill() {
	step, err := it.src.Pull()
	if err != nil {
		it.fail(err)
		return
	}
	if step.Exhausted() {
		it.finish()
		return
	}
	it.head = step
	it.src = nil
	it.state = stateBuffered
}

func (it *Iterator[T]) finish() {
	it.src = nil
	it.head = Step[T]{}
	if err := it.release(); err != nil {
		it.state = stateFailed
		it.err = err
		return
	}
	it.state = stateExhausted
}

func (it *Iterator[T]) fail(err error) {
	it.src = nil
	it.head = Step[T]{}
	it.state = stateFailed
	it.err = errorkit.Merge(err, it.release())
}

// move transfers the remainder of the Iterator and the ownership of its resources to the caller.
// The Iterator is left in the moved state.
func (it *Iterator[T]) move() (Source[T], func() error) {
	if it == nil {
		return emptySource[T]{}, noRelease
	}
	var (
		src     Source[T]
		release = it.release
	)
	switch it.state {
	case statePending:
		src = it.src
	case stateBuffered:
		v, _ := it.head.Value()
		src = prependSource[T]{value: v, rest: it.head.Rest()}
	case stateExhausted:
		src, release = emptySource[T]{}, noRelease
	case stateFailed:
		src, release = errSource[T]{err: it.err}, noRelease
	case stateMoved:
		src, release = errSource[T]{err: ErrMoved}, noRelease
	}
	it.state = stateMoved
	it.src = nil
	it.head = Step[T]{}
	it.err = nil
	it.release = noRelease
	return src, release
}

// derive moves the state of "it" into a new Iterator, built around the transformed Source.
func derive[R, T any](it *Iterator[T], transform func(Source[T]) Source[R]) *Iterator[R] {
	src, release := it.move()
	return &Iterator[R]{
		src:     transform(src),
		release: release,
	}
}
