package lazyitercontract

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"go.llib.dev/frameless/port/contract"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/lazyseq/pkg/lazyiter"
)

// Subject is what a Traversable contract is tested against.
type Subject[T any] struct {
	// Iterator is a fresh handle, that was not pulled yet.
	Iterator *lazyiter.Iterator[T]
	// Elements are the values Iterator is expected to yield, in order.
	// A nil Elements means that Iterator is infinite.
	Elements []T
}

// Traversable checks the behaviour every Iterator must have, no matter how it was constructed.
func Traversable[T any](mk contract.Make[Subject[T]]) contract.Contract {
	s := testcase.NewSpec(nil)

	subject := testcase.Let(s, func(t *testcase.T) Subject[T] {
		return mk(t)
	})
	iterator := func(t *testcase.T) *lazyiter.Iterator[T] {
		return subject.Get(t).Iterator
	}
	finite := func(t *testcase.T) {
		if subject.Get(t).Elements == nil {
			t.Skip("infinite iterator")
		}
	}

	s.Test("HasNext is idempotent", func(t *testcase.T) {
		it := iterator(t)
		first := it.HasNext()
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, it.HasNext())
		}
	})

	s.Test("the first pull yields the first element", func(t *testcase.T) {
		exp := subject.Get(t).Elements
		it := iterator(t)
		if exp != nil && len(exp) == 0 {
			assert.False(t, it.HasNext())
			return
		}
		v, err := it.Pull()
		assert.NoError(t, err)
		if exp != nil {
			assert.Equal(t, exp[0], v)
		}
	})

	s.Test("the elements are yielded in order", func(t *testcase.T) {
		finite(t)
		vs, err := lazyiter.Collect(iterator(t))
		assert.NoError(t, err)
		assert.Equal(t, subject.Get(t).Elements, vs)
	})

	s.Test("exhaustion is terminal", func(t *testcase.T) {
		finite(t)
		it := iterator(t)
		_, err := lazyiter.Collect(it)
		assert.NoError(t, err)
		for i := 0; i < 10; i++ {
			assert.False(t, it.HasNext())
			_, err := it.Pull()
			assert.True(t, errors.Is(err, lazyiter.ErrExhausted))
		}
	})

	s.Test("Take bounds the sequence", func(t *testcase.T) {
		n := t.Random.IntB(0, 5)
		vs, err := lazyiter.Collect(iterator(t).Take(n))
		assert.NoError(t, err)
		if exp := subject.Get(t).Elements; exp != nil && len(exp) < n {
			n = len(exp)
		}
		assert.Equal(t, n, len(vs))
	})

	s.Test("Take with zero yields nothing", func(t *testcase.T) {
		assert.False(t, iterator(t).Take(0).HasNext())
	})

	s.Test("a transformed handle is moved", func(t *testcase.T) {
		it := iterator(t)
		_ = it.Take(1)
		_, err := it.Pull()
		assert.True(t, errors.Is(err, lazyiter.ErrMoved))
	})

	s.Test("closing makes it exhausted", func(t *testcase.T) {
		it := iterator(t)
		assert.NoError(t, it.Close())
		assert.False(t, it.HasNext())
	})

	s.Test("it has no value identity", func(t *testcase.T) {
		a, b := iterator(t), mk(t).Iterator
		assert.False(t, reflect.DeepEqual(a, b))
		_, err := json.Marshal(a)
		assert.True(t, errors.Is(err, lazyiter.ErrUnsupported))
	})

	return s.AsSuite("Traversable")
}

// Equal asserts that two Iterators yield the same elements.
// Iterators have no value identity, so both of them are drained and their materialized forms are compared.
func Equal[T any](tb testing.TB, expected, actual *lazyiter.Iterator[T]) {
	tb.Helper()
	exp, err := lazyiter.Collect(expected)
	assert.NoError(tb, err)
	EqualValues(tb, exp, actual)
}

// EqualValues asserts that the Iterator yields exactly the expected elements.
func EqualValues[T any](tb testing.TB, expected []T, actual *lazyiter.Iterator[T]) {
	tb.Helper()
	act, err := lazyiter.Collect(actual)
	assert.NoError(tb, err)
	if expected == nil {
		expected = []T{}
	}
	assert.Equal(tb, expected, act)
}
