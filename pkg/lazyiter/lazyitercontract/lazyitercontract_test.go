package lazyitercontract_test

import (
	"slices"
	"testing"

	"github.com/Pallinder/go-randomdata"
	list "github.com/bahlo/generic-list-go"

	"go.llib.dev/lazyseq/pkg/lazyiter"
	"go.llib.dev/lazyseq/pkg/lazyiter/lazyitercontract"
)

type subject = lazyitercontract.Subject[int]

func TestTraversable(t *testing.T) {
	lazyitercontract.Traversable(func(tb testing.TB) subject {
		return subject{Iterator: lazyiter.OfAll(1, 2, 3), Elements: []int{1, 2, 3}}
	}).Test(t)

	lazyitercontract.Traversable(func(tb testing.TB) subject {
		return subject{Iterator: lazyiter.Empty[int](), Elements: []int{}}
	}).Test(t)

	lazyitercontract.Traversable(func(tb testing.TB) subject {
		return subject{Iterator: lazyiter.From(0)}
	}).Test(t)

	lazyitercontract.Traversable(func(tb testing.TB) subject {
		return subject{Iterator: lazyiter.Gen(func() int { return 1 })}
	}).Test(t)

	lazyitercontract.Traversable(func(tb testing.TB) subject {
		return subject{Iterator: lazyiter.Range(0, 10).Filter(func(n int) bool { return n%2 == 0 }), Elements: []int{0, 2, 4, 6, 8}}
	}).Test(t)

	lazyitercontract.Traversable(func(tb testing.TB) subject {
		return subject{Iterator: lazyiter.OfSeq(slices.Values([]int{4, 2})), Elements: []int{4, 2}}
	}).Test(t)

	lazyitercontract.Traversable(func(tb testing.TB) subject {
		l := list.New[int]()
		l.PushBack(7)
		return subject{Iterator: lazyiter.OfList(l), Elements: []int{7}}
	}).Test(t)

	lazyitercontract.Traversable(func(tb testing.TB) subject {
		nested := lazyiter.OfAll[any]([]int{1}, lazyiter.OfAll(2, 3))
		return subject{Iterator: lazyiter.Flatten[int](nested), Elements: []int{1, 2, 3}}
	}).Test(t)

	lazyitercontract.Traversable(func(tb testing.TB) subject {
		n := randomdata.Number(1, 10)
		return subject{Iterator: lazyiter.Unfold(n, func(i int) int { return i * 2 }).Take(2), Elements: []int{n, n * 2}}
	}).Test(t)
}

func TestEqual(t *testing.T) {
	lazyitercontract.Equal(t, lazyiter.OfAll(1, 2, 3), lazyiter.Range(1, 4))
	lazyitercontract.Equal(t, lazyiter.Empty[string](), lazyiter.OfAll[string]())
	lazyitercontract.EqualValues(t, []int{2, 4}, lazyiter.Map(lazyiter.OfAll(1, 2), func(n int) int { return n * 2 }))
	lazyitercontract.EqualValues(t, nil, lazyiter.Empty[int]())
}
