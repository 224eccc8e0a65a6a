package lazyiter

// KV is a key value pair, yielded by ZipWithIndex and consumed by CollectMap.
type KV[K, V any] struct {
	K K
	V V
}

// Take returns an Iterator that yields at most the first n elements.
//
// When n is zero or negative, the returned Iterator is exhausted and the upstream is never pulled.
// After the n-th element, the upstream is not pulled again,
// which makes Take the way to bound an infinite Iterator.
func (it *Iterator[T]) Take(n int) *Iterator[T] {
	return derive(it, func(src Source[T]) Source[T] {
		return takeSource[T]{src: src, n: n}
	})
}

type takeSource[T any] struct {
	src Source[T]
	n   int
}

func (s takeSource[T]) Pull() (Step[T], error) {
	if s.n <= 0 {
		return Done[T](), nil
	}
	step, err := s.src.Pull()
	if err != nil {
		return Done[T](), err
	}
	v, ok := step.Value()
	if !ok {
		return Done[T](), nil
	}
	if s.n == 1 {
		return Yield[T](v, nil), nil
	}
	return Yield[T](v, takeSource[T]{src: step.Rest(), n: s.n - 1}), nil
}

// Drop returns an Iterator that skips the first n elements.
// The skipped elements are pulled only when the first element of the result is requested.
func (it *Iterator[T]) Drop(n int) *Iterator[T] {
	return derive(it, func(src Source[T]) Source[T] {
		return dropSource[T]{src: src, n: n}
	})
}

type dropSource[T any] struct {
	src Source[T]
	n   int
}

func (s dropSource[T]) Pull() (Step[T], error) {
	src := s.src
	for i := 0; i < s.n; i++ {
		step, err := src.Pull()
		if err != nil {
			return Done[T](), err
		}
		if step.Exhausted() {
			return Done[T](), nil
		}
		src = step.Rest()
	}
	return src.Pull()
}

// Filter returns an Iterator with the elements that satisfy the predicate.
// A single pull on the result pulls the upstream only until the next match.
func (it *Iterator[T]) Filter(pred func(T) bool) *Iterator[T] {
	return derive(it, func(src Source[T]) Source[T] {
		return filterSource[T]{src: src, pred: pred}
	})
}

type filterSource[T any] struct {
	src  Source[T]
	pred func(T) bool
}

func (s filterSource[T]) Pull() (Step[T], error) {
	src := s.src
	for {
		step, err := src.Pull()
		if err != nil {
			return Done[T](), err
		}
		v, ok := step.Value()
		if !ok {
			return Done[T](), nil
		}
		if s.pred(v) {
			return Yield[T](v, filterSource[T]{src: step.Rest(), pred: s.pred}), nil
		}
		src = step.Rest()
	}
}

// TakeWhile returns an Iterator that yields elements as long as the predicate holds.
// The first element that fails the predicate ends the sequence and is discarded.
func (it *Iterator[T]) TakeWhile(pred func(T) bool) *Iterator[T] {
	return derive(it, func(src Source[T]) Source[T] {
		return takeWhileSource[T]{src: src, pred: pred}
	})
}

type takeWhileSource[T any] struct {
	src  Source[T]
	pred func(T) bool
}

func (s takeWhileSource[T]) Pull() (Step[T], error) {
	step, err := s.src.Pull()
	if err != nil {
		return Done[T](), err
	}
	v, ok := step.Value()
	if !ok || !s.pred(v) {
		return Done[T](), nil
	}
	return Yield[T](v, takeWhileSource[T]{src: step.Rest(), pred: s.pred}), nil
}

// DropWhile returns an Iterator that skips elements as long as the predicate holds,
// then yields the rest of the elements unfiltered.
func (it *Iterator[T]) DropWhile(pred func(T) bool) *Iterator[T] {
	return derive(it, func(src Source[T]) Source[T] {
		return dropWhileSource[T]{src: src, pred: pred}
	})
}

type dropWhileSource[T any] struct {
	src  Source[T]
	pred func(T) bool
}

func (s dropWhileSource[T]) Pull() (Step[T], error) {
	src := s.src
	for {
		step, err := src.Pull()
		if err != nil {
			return Done[T](), err
		}
		v, ok := step.Value()
		if !ok {
			return Done[T](), nil
		}
		if !s.pred(v) {
			return step, nil
		}
		src = step.Rest()
	}
}

// Peek returns an Iterator that performs the action on every element at the time it is pulled.
func (it *Iterator[T]) Peek(action func(T)) *Iterator[T] {
	return derive(it, func(src Source[T]) Source[T] {
		return peekSource[T]{src: src, action: action}
	})
}

type peekSource[T any] struct {
	src    Source[T]
	action func(T)
}

func (s peekSource[T]) Pull() (Step[T], error) {
	step, err := s.src.Pull()
	if err != nil {
		return Done[T](), err
	}
	v, ok := step.Value()
	if !ok {
		return Done[T](), nil
	}
	s.action(v)
	return Yield[T](v, peekSource[T]{src: step.Rest(), action: s.action}), nil
}

// Concat returns an Iterator that yields the elements of "it", then the elements of the others in order.
// All the passed Iterators are moved into the result.
func (it *Iterator[T]) Concat(others ...*Iterator[T]) *Iterator[T] {
	var (
		srcs     = make([]Source[T], 0, len(others)+1)
		releases = make([]func() error, 0, len(others)+1)
	)
	for _, i := range append([]*Iterator[T]{it}, others...) {
		src, release := i.move()
		srcs = append(srcs, src)
		releases = append(releases, release)
	}
	return &Iterator[T]{
		src:     concatSource[T](srcs),
		release: releaser(releases...),
	}
}

type concatSource[T any] []Source[T]

func (s concatSource[T]) Pull() (Step[T], error) {
	for i := 0; i < len(s); i++ {
		step, err := s[i].Pull()
		if err != nil {
			return Done[T](), err
		}
		v, ok := step.Value()
		if !ok {
			continue
		}
		rest := make(concatSource[T], 0, len(s)-i)
		rest = append(rest, step.Rest())
		rest = append(rest, s[i+1:]...)
		return Yield[T](v, rest), nil
	}
	return Done[T](), nil
}

// Map returns an Iterator that yields the results of the mapping function applied to the elements.
// Every pull on the result pulls the upstream exactly once.
func Map[To, From any](it *Iterator[From], fn func(From) To) *Iterator[To] {
	return MapE(it, func(v From) (To, error) { return fn(v), nil })
}

// MapE is the failable form of Map.
// An error from the mapping function surfaces at the pull of the element that caused it.
func MapE[To, From any](it *Iterator[From], fn func(From) (To, error)) *Iterator[To] {
	return derive(it, func(src Source[From]) Source[To] {
		return mapSource[To, From]{src: src, fn: fn}
	})
}

type mapSource[To, From any] struct {
	src Source[From]
	fn  func(From) (To, error)
}

func (s mapSource[To, From]) Pull() (Step[To], error) {
	step, err := s.src.Pull()
	if err != nil {
		return Done[To](), err
	}
	v, ok := step.Value()
	if !ok {
		return Done[To](), nil
	}
	out, err := s.fn(v)
	if err != nil {
		return Done[To](), err
	}
	return Yield[To](out, mapSource[To, From]{src: step.Rest(), fn: s.fn}), nil
}

// ZipWithIndex pairs every element with its zero based position in the sequence.
func ZipWithIndex[T any](it *Iterator[T]) *Iterator[KV[int, T]] {
	var index int
	return Map(it, func(v T) KV[int, T] {
		kv := KV[int, T]{K: index, V: v}
		index++
		return kv
	})
}

// Distinct returns an Iterator that yields every element only on its first occurrence.
// It keeps the elements seen so far in memory.
func Distinct[T comparable](it *Iterator[T]) *Iterator[T] {
	seen := make(map[T]struct{})
	return it.Filter(func(v T) bool {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
		return true
	})
}

const defaultGroupSize = 64

// Grouped returns an Iterator that yields the elements in chunks of the given size.
// The last chunk can be smaller.
// A size that is zero or negative falls back to the default size of 64.
func Grouped[T any](it *Iterator[T], size int) *Iterator[[]T] {
	if size <= 0 {
		size = defaultGroupSize
	}
	return derive(it, func(src Source[T]) Source[[]T] {
		return groupedSource[T]{src: src, size: size}
	})
}

type groupedSource[T any] struct {
	src  Source[T]
	size int
}

func (s groupedSource[T]) Pull() (Step[[]T], error) {
	var (
		src   = s.src
		chunk = make([]T, 0, s.size)
	)
	for len(chunk) < s.size {
		step, err := src.Pull()
		if err != nil {
			return Done[[]T](), err
		}
		v, ok := step.Value()
		if !ok {
			if len(chunk) == 0 {
				return Done[[]T](), nil
			}
			return Yield[[]T](chunk, nil), nil
		}
		chunk = append(chunk, v)
		src = step.Rest()
	}
	return Yield[[]T](chunk, groupedSource[T]{src: src, size: s.size}), nil
}
