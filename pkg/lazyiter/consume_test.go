package lazyiter_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Pallinder/go-randomdata"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/lazyseq/pkg/lazyiter"
)

func ExampleGroupBy() {
	groups, _ := lazyiter.GroupBy(lazyiter.Range(0, 6), func(n int) string {
		if n%2 == 0 {
			return "even"
		}
		return "odd"
	})
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Println(pair.Key, pair.Value)
	}
	// Output:
	// even [0 2 4]
	// odd [1 3 5]
}

func ExampleForEach() {
	_ = lazyiter.ForEach(lazyiter.From(1), func(n int) error {
		if 3 < n {
			return lazyiter.Break
		}
		fmt.Println(n)
		return nil
	})
	// Output:
	// 1
	// 2
	// 3
}

func TestIterator_Reduce(t *testing.T) {
	s := testcase.NewSpec(t)

	add := func(a, b int) int { return a + b }

	s.Test("left fold of the elements", func(t *testcase.T) {
		v, err := lazyiter.OfAll("a", "b", "c").Reduce(func(acc, v string) string { return "(" + acc + v + ")" })
		assert.NoError(t, err)
		assert.Equal(t, "((ab)c)", v)
	})

	s.Test("single element", func(t *testcase.T) {
		exp := t.Random.Int()
		v, err := lazyiter.Of(exp).Reduce(add)
		assert.NoError(t, err)
		assert.Equal(t, exp, v)
	})

	s.Test("empty iterator", func(t *testcase.T) {
		_, err := lazyiter.Empty[int]().Reduce(add)
		assert.True(t, errors.Is(err, lazyiter.ErrEmptyReduction))
	})

	s.Test("infinite iterator bounded with Take", func(t *testcase.T) {
		v, err := lazyiter.From(1).Take(100).Reduce(add)
		assert.NoError(t, err)
		assert.Equal(t, 5050, v)
	})

	s.Test("upstream failure aborts the reduction", func(t *testcase.T) {
		expErr := errors.New(t.Random.String())
		_, err := lazyiter.OfAll(1, 2).Concat(lazyiter.GenE(func() (int, error) { return 0, expErr })).Reduce(add)
		assert.True(t, errors.Is(err, expErr))
	})
}

func TestFold(t *testing.T) {
	v, err := lazyiter.Fold(lazyiter.OfAll("a", "bb", "ccc"), 0, func(n int, s string) int { return n + len(s) })
	assert.NoError(t, err)
	assert.Equal(t, 6, v)

	v, err = lazyiter.Fold(lazyiter.Empty[string](), 42, func(n int, s string) int { return n + len(s) })
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestGroupBy(t *testing.T) {
	s := testcase.NewSpec(t)

	s.Test("identity classifier", func(t *testcase.T) {
		groups, err := lazyiter.GroupBy(lazyiter.OfAll(1, 2, 3, 4), func(n int) int { return n })
		assert.NoError(t, err)
		assert.Equal(t, 4, groups.Len())
		var keys []int
		for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
			keys = append(keys, pair.Key)
			assert.Equal(t, []int{pair.Key}, pair.Value)
		}
		assert.Equal(t, []int{1, 2, 3, 4}, keys)
	})

	s.Test("constant classifier", func(t *testcase.T) {
		groups, err := lazyiter.GroupBy(lazyiter.OfAll(1, 2, 3, 4), func(int) int { return 1 })
		assert.NoError(t, err)
		assert.Equal(t, 1, groups.Len())
		vs, ok := groups.Get(1)
		assert.True(t, ok)
		assert.Equal(t, []int{1, 2, 3, 4}, vs)
	})

	s.Test("groups are ordered by the first occurrence of their key", func(t *testcase.T) {
		words := []string{"banana", "apple", "blueberry", "cherry", "avocado"}
		groups, err := lazyiter.GroupBy(lazyiter.OfSlice(words), func(w string) string { return w[:1] })
		assert.NoError(t, err)
		var got []string
		for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
			got = append(got, pair.Key+":"+strings.Join(pair.Value, ","))
		}
		assert.Equal(t, []string{"b:banana,blueberry", "a:apple,avocado", "c:cherry"}, got)
	})

	s.Test("empty iterator has no groups", func(t *testcase.T) {
		groups, err := lazyiter.GroupBy(lazyiter.Empty[int](), func(n int) int { return n })
		assert.NoError(t, err)
		assert.Equal(t, 0, groups.Len())
	})
}

func TestCollect(t *testing.T) {
	s := testcase.NewSpec(t)

	s.Test("empty iterator collects into an empty, non nil slice", func(t *testcase.T) {
		vs, err := lazyiter.Collect(lazyiter.Empty[string]())
		assert.NoError(t, err)
		assert.NotNil(t, vs)
		assert.Equal(t, 0, len(vs))
	})

	s.Test("random data keeps its order", func(t *testcase.T) {
		exp := []string{randomdata.SillyName(), randomdata.City(), randomdata.Email()}
		vs, err := lazyiter.Collect(lazyiter.OfSlice(exp))
		assert.NoError(t, err)
		assert.Equal(t, exp, vs)
	})

	s.Test("ToList", func(t *testcase.T) {
		l, err := lazyiter.ToList(lazyiter.OfAll(1, 2, 3))
		assert.NoError(t, err)
		assert.Equal(t, 3, l.Len())
		var vs []int
		for e := l.Front(); e != nil; e = e.Next() {
			vs = append(vs, e.Value)
		}
		assert.Equal(t, []int{1, 2, 3}, vs)
	})

	s.Test("CollectMap", func(t *testcase.T) {
		m, err := lazyiter.CollectMap(lazyiter.ZipWithIndex(lazyiter.OfAll("a", "b")))
		assert.NoError(t, err)
		assert.Equal(t, map[int]string{0: "a", 1: "b"}, m)
	})
}

func TestCount(t *testing.T) {
	n := randomdata.Number(0, 50)
	count, err := lazyiter.Count(lazyiter.Range(0, n))
	assert.NoError(t, err)
	assert.Equal(t, n, count)
}

func TestFirst(t *testing.T) {
	s := testcase.NewSpec(t)

	s.Test("first element of an infinite iterator", func(t *testcase.T) {
		v, ok, err := lazyiter.First(lazyiter.From(7))
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 7, v)
	})

	s.Test("empty", func(t *testcase.T) {
		_, ok, err := lazyiter.First(lazyiter.Empty[int]())
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	s.Test("closes the iterator", func(t *testcase.T) {
		var closed bool
		it := lazyiter.New[int](sourceOf(1, 2), lazyiter.OnClose(func() error { closed = true; return nil }))
		_, _, err := lazyiter.First(it)
		assert.NoError(t, err)
		assert.True(t, closed)
	})
}

func TestLast(t *testing.T) {
	v, ok, err := lazyiter.Last(lazyiter.OfAll(4, 2, 42))
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok, err = lazyiter.Last(lazyiter.Empty[int]())
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestFind(t *testing.T) {
	s := testcase.NewSpec(t)

	s.Test("Find on an infinite iterator", func(t *testcase.T) {
		v, ok, err := lazyiter.Find(lazyiter.From(1), func(n int) bool { return n%7 == 0 })
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 7, v)
	})

	s.Test("Exists", func(t *testcase.T) {
		ok, err := lazyiter.Exists(lazyiter.OfAll(1, 3, 5), func(n int) bool { return n%2 == 0 })
		assert.NoError(t, err)
		assert.False(t, ok)

		ok, err = lazyiter.Exists(lazyiter.From(1), func(n int) bool { return n%2 == 0 })
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	s.Test("ForAll", func(t *testcase.T) {
		ok, err := lazyiter.ForAll(lazyiter.OfAll(2, 4, 6), func(n int) bool { return n%2 == 0 })
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = lazyiter.ForAll(lazyiter.From(0), func(n int) bool { return n < 10 })
		assert.NoError(t, err)
		assert.False(t, ok)

		ok, err = lazyiter.ForAll(lazyiter.Empty[int](), func(int) bool { return false })
		assert.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestForEach(t *testing.T) {
	s := testcase.NewSpec(t)

	s.Test("visits every element", func(t *testcase.T) {
		var got []int
		err := lazyiter.ForEach(lazyiter.OfAll(1, 2, 3), func(n int) error {
			got = append(got, n)
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, got)
	})

	s.Test("Break stops without an error and releases the iterator", func(t *testcase.T) {
		var closed bool
		it := lazyiter.New[int](sourceOf(1, 2, 3), lazyiter.OnClose(func() error { closed = true; return nil }))
		var got []int
		err := lazyiter.ForEach(it, func(n int) error {
			got = append(got, n)
			return lazyiter.Break
		})
		assert.NoError(t, err)
		assert.Equal(t, []int{1}, got)
		assert.True(t, closed)
	})

	s.Test("callback error is returned", func(t *testcase.T) {
		expErr := errors.New(t.Random.String())
		err := lazyiter.ForEach(lazyiter.From(0), func(int) error { return expErr })
		assert.True(t, errors.Is(err, expErr))
	})
}
