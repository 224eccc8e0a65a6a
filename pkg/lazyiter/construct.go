package lazyiter

import (
	"iter"

	list "github.com/bahlo/generic-list-go"
)

// Integer is the set of fixed width integer types that From and Range can count with.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Empty iterator is used to represent nil result with Null object pattern.
func Empty[T any]() *Iterator[T] {
	return New[T](emptySource[T]{})
}

// Of creates an Iterator that yields exactly one value.
func Of[T any](v T) *Iterator[T] {
	return New[T](prependSource[T]{value: v})
}

// OfAll creates an Iterator that yields the given values in order.
func OfAll[T any](vs ...T) *Iterator[T] {
	return OfSlice(vs)
}

// OfSlice creates an Iterator that yields the elements of the slice in index order.
// The slice is not copied, changes to elements that are not yet pulled are visible to the Iterator.
func OfSlice[T any](vs []T) *Iterator[T] {
	return New[T](sliceSource[T](vs))
}

type sliceSource[T any] []T

func (s sliceSource[T]) Pull() (Step[T], error) {
	if len(s) == 0 {
		return Done[T](), nil
	}
	return Yield[T](s[0], s[1:]), nil
}

// OfList creates an Iterator that walks the list from front to back.
func OfList[T any](l *list.List[T]) *Iterator[T] {
	if l == nil {
		return Empty[T]()
	}
	return New[T](listSource[T]{elem: l.Front()})
}

type listSource[T any] struct {
	elem *list.Element[T]
}

func (s listSource[T]) Pull() (Step[T], error) {
	if s.elem == nil {
		return Done[T](), nil
	}
	return Yield[T](s.elem.Value, listSource[T]{elem: s.elem.Next()}), nil
}

// OfSeq creates an Iterator from an iter.Seq, keeping the sequence's iteration order.
// The sequence is started only when the first element is pulled,
// and it is stopped when the Iterator is closed or exhausted.
func OfSeq[T any](seq iter.Seq[T]) *Iterator[T] {
	if seq == nil {
		return Empty[T]()
	}
	src := &seqSource[T]{seq: seq}
	return New[T](src, OnClose(src.Close))
}

type seqSource[T any] struct {
	seq  iter.Seq[T]
	next func() (T, bool)
	stop func()
}

func (s *seqSource[T]) Pull() (Step[T], error) {
	if s.next == nil {
		s.next, s.stop = iter.Pull(s.seq)
	}
	v, ok := s.next()
	if !ok {
		return Done[T](), nil
	}
	return Yield[T](v, s), nil
}

func (s *seqSource[T]) Close() error {
	if s.stop != nil {
		s.stop()
	}
	return nil
}

// FromPull creates an Iterator from a pull function, like the one iter.Pull returns.
// The stop functions are called when the Iterator is closed or exhausted.
func FromPull[T any](next func() (T, bool), stops ...func()) *Iterator[T] {
	var opts []Option
	for _, stop := range stops {
		opts = append(opts, OnClose(func() error { stop(); return nil }))
	}
	var src Source[T]
	src = SourceFunc[T](func() (Step[T], error) {
		v, ok := next()
		if !ok {
			return Done[T](), nil
		}
		return Yield(v, src), nil
	})
	return New[T](src, opts...)
}

// From creates an infinite Iterator that counts up from start by one.
//
// The counting follows the wraparound arithmetic of N,
// after the maximum value of N comes its minimum value.
//
//	From[int32](math.MaxInt32).Take(2) // math.MaxInt32, math.MinInt32
func From[N Integer](start N) *Iterator[N] {
	return FromStep[N](start, 1)
}

// FromStep creates an infinite Iterator that yields start, start+step, start+2*step, ...
// using the wraparound arithmetic of N.
func FromStep[N Integer](start, step N) *Iterator[N] {
	return New[N](counterSource[N]{next: start, step: step})
}

type counterSource[N Integer] struct {
	next N
	step N
}

func (s counterSource[N]) Pull() (Step[N], error) {
	return Yield[N](s.next, counterSource[N]{next: s.next + s.step, step: s.step}), nil
}

// Range creates an Iterator that counts from "from" up to "to", "to" not included.
func Range[N Integer](from, to N) *Iterator[N] {
	return RangeBy[N](from, to, 1)
}

// RangeBy creates an Iterator that counts from "from" towards "to" by step, "to" not included.
// A negative step counts downwards.
// A zero step fails with ErrInvalidArgument on the first pull.
func RangeBy[N Integer](from, to, step N) *Iterator[N] {
	return New[N](rangeSource[N]{next: from, to: to, step: step})
}

type rangeSource[N Integer] struct {
	next, to, step N
}

func (s rangeSource[N]) Pull() (Step[N], error) {
	var zero N
	switch {
	case s.step == zero:
		return Done[N](), ErrInvalidArgument
	case zero < s.step && s.to <= s.next:
		return Done[N](), nil
	case s.step < zero && s.next <= s.to:
		return Done[N](), nil
	}
	following := s.next + s.step
	if (zero < s.step && following < s.next) || (s.step < zero && s.next < following) {
		// the next step would wrap around, so this is the last value before "to"
		return Yield[N](s.next, nil), nil
	}
	return Yield[N](s.next, rangeSource[N]{next: following, to: s.to, step: s.step}), nil
}

// Gen creates an infinite Iterator where every element is the result of a new supplier call.
// The supplier is called only when an element is pulled.
func Gen[T any](supplier func() T) *Iterator[T] {
	return New[T](genSource[T]{supplier: supplier})
}

type genSource[T any] struct {
	supplier func() T
}

func (s genSource[T]) Pull() (Step[T], error) {
	return Yield[T](s.supplier(), s), nil
}

// GenE is the failable form of Gen.
// An error from the supplier surfaces at the pull that invoked it, and ends the Iterator.
func GenE[T any](supplier func() (T, error)) *Iterator[T] {
	return New[T](genESource[T]{supplier: supplier})
}

type genESource[T any] struct {
	supplier func() (T, error)
}

func (s genESource[T]) Pull() (Step[T], error) {
	v, err := s.supplier()
	if err != nil {
		return Done[T](), err
	}
	return Yield[T](v, s), nil
}

// Unfold creates an infinite Iterator that yields seed, step(seed), step(step(seed)), ...
// Each element after the seed is computed from the previous one, only when it is pulled.
func Unfold[T any](seed T, step func(T) T) *Iterator[T] {
	return New[T](unfoldSource[T]{value: seed, step: step})
}

type unfoldSource[T any] struct {
	value T
	step  func(T) T
}

func (s unfoldSource[T]) Pull() (Step[T], error) {
	return Yield[T](s.value, SourceFunc[T](func() (Step[T], error) {
		return unfoldSource[T]{value: s.step(s.value), step: s.step}.Pull()
	})), nil
}
