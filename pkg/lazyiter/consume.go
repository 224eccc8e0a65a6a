package lazyiter

import (
	"errors"

	list "github.com/bahlo/generic-list-go"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.llib.dev/frameless/pkg/errorkit"
)

// Reduce combines the elements from left to right with the binary operator.
// The first element is the initial accumulator.
//
// Reduce fails with ErrEmptyReduction when the Iterator has no elements.
// Reduce on an infinite Iterator never returns, bound it first with Take or TakeWhile.
func (it *Iterator[T]) Reduce(op func(acc, v T) T) (T, error) {
	acc, ok, err := it.pull()
	if err != nil {
		return acc, err
	}
	if !ok {
		return acc, ErrEmptyReduction
	}
	for {
		v, ok, err := it.pull()
		if err != nil {
			return acc, err
		}
		if !ok {
			return acc, nil
		}
		acc = op(acc, v)
	}
}

// Fold combines the elements from left to right into the initial value.
// Unlike Reduce, folding an empty Iterator returns the initial value.
func Fold[R, T any](it *Iterator[T], initial R, op func(R, T) R) (R, error) {
	acc := initial
	for {
		v, ok, err := it.pull()
		if err != nil {
			return acc, err
		}
		if !ok {
			return acc, nil
		}
		acc = op(acc, v)
	}
}

// Collect materializes the remaining elements into a slice, in pull order.
// The returned slice is never nil.
func Collect[T any](it *Iterator[T]) ([]T, error) {
	vs := make([]T, 0)
	for {
		v, ok, err := it.pull()
		if err != nil {
			return vs, err
		}
		if !ok {
			return vs, nil
		}
		vs = append(vs, v)
	}
}

// ToList materializes the remaining elements into a linked list, in pull order.
func ToList[T any](it *Iterator[T]) (*list.List[T], error) {
	l := list.New[T]()
	for {
		v, ok, err := it.pull()
		if err != nil {
			return l, err
		}
		if !ok {
			return l, nil
		}
		l.PushBack(v)
	}
}

// GroupBy partitions the elements by the key the classifier assigns to them.
//
// The groups are ordered by the first occurrence of their key,
// and the elements of a group keep their original order.
// GroupBy is eager, it drains the Iterator.
func GroupBy[K comparable, T any](it *Iterator[T], classifier func(T) K) (*orderedmap.OrderedMap[K, []T], error) {
	groups := orderedmap.New[K, []T]()
	for {
		v, ok, err := it.pull()
		if err != nil {
			return groups, err
		}
		if !ok {
			return groups, nil
		}
		key := classifier(v)
		group, _ := groups.Get(key)
		groups.Set(key, append(group, v))
	}
}

// Count drains the Iterator and returns the number of elements it had.
func Count[T any](it *Iterator[T]) (int, error) {
	var total int
	for {
		_, ok, err := it.pull()
		if err != nil {
			return total, err
		}
		if !ok {
			return total, nil
		}
		total++
	}
}

// First returns the next element and closes the Iterator.
func First[T any](it *Iterator[T]) (T, bool, error) {
	v, ok, err := it.pull()
	if err != nil {
		return v, false, err
	}
	return v, ok, it.Close()
}

// Last drains the Iterator and returns its last element.
func Last[T any](it *Iterator[T]) (T, bool, error) {
	var (
		last  T
		found bool
	)
	for {
		v, ok, err := it.pull()
		if err != nil {
			return last, found, err
		}
		if !ok {
			return last, found, nil
		}
		last, found = v, true
	}
}

// Find returns the first element that satisfies the predicate.
// The Iterator is closed once a match is found.
func Find[T any](it *Iterator[T], pred func(T) bool) (T, bool, error) {
	return First(it.Filter(pred))
}

// Exists reports whether any element satisfies the predicate.
func Exists[T any](it *Iterator[T], pred func(T) bool) (bool, error) {
	_, ok, err := Find(it, pred)
	return ok, err
}

// ForAll reports whether every element satisfies the predicate.
// It stops pulling at the first element that does not.
func ForAll[T any](it *Iterator[T], pred func(T) bool) (bool, error) {
	found, err := Exists(it, func(v T) bool { return !pred(v) })
	return !found, err
}

// ForEach calls fn with every element.
// Returning Break from fn stops the iteration without an error,
// any other error stops the iteration and is returned.
func ForEach[T any](it *Iterator[T], fn func(T) error) (rErr error) {
	defer func() { rErr = errorkit.Merge(rErr, it.Close()) }()
	for {
		v, ok, err := it.pull()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(v); err != nil {
			if errors.Is(err, Break) {
				return nil
			}
			return err
		}
	}
}

// CollectMap materializes key value pairs into a map.
// A key that occurs more than once keeps its last value.
func CollectMap[K comparable, V any](it *Iterator[KV[K, V]]) (map[K]V, error) {
	m := make(map[K]V)
	for {
		kv, ok, err := it.pull()
		if err != nil {
			return m, err
		}
		if !ok {
			return m, nil
		}
		m[kv.K] = kv.V
	}
}
