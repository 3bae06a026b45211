package chainvault

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIteratorOverEmptyContainerStaysEmptyForever(t *testing.T) {
	c := New[struct{}]()
	it := c.Iter()
	require.True(t, it.IsEmpty())

	c.Append(struct{}{})
	require.True(t, it.IsEmpty())

	_, ok := it.Next()
	require.False(t, ok)
}

func TestIteratorFreezesOnceCaughtUpEvenIfMoreArriveLater(t *testing.T) {
	c := Of(struct{}{})
	c.Append(struct{}{})
	it := c.Iter()

	_, ok := it.Next()
	require.True(t, ok)
	_, ok = it.Next()
	require.True(t, ok)

	c.Append(struct{}{})

	_, ok = it.Next()
	require.False(t, ok)
}

func TestIteratorDoesNotObserveClear(t *testing.T) {
	c := Of(struct{}{})
	it := c.Iter()

	require.False(t, c.IsEmpty())
	require.NoError(t, c.Clear())
	require.True(t, c.IsEmpty())

	require.Equal(t, 1, it.Len())
	_, ok := it.Next()
	require.True(t, ok)
}

func TestIteratorGrowsUntilCaughtUp(t *testing.T) {
	c := Of(1, 2, 3)
	it1 := c.Iter()
	it2 := c.Iter()

	collect := func(it *Iterator[int]) []int {
		var got []int
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			got = append(got, v)
		}
		return got
	}
	require.Equal(t, []int{1, 2, 3}, collect(it1))

	c.Append(4)
	require.Equal(t, []int{1, 2, 3, 4}, collect(it2))

	it3 := c.Iter()
	require.Equal(t, []int{1, 2, 3, 4}, collect(it3))
}

func TestIteratorManyIndependentSnapshots(t *testing.T) {
	c := Of(1, 2, 3, 4, 5)
	it := c.Iter()
	it1 := c.Iter()
	it2 := c.Iter()

	collect := func(it *Iterator[int]) []int {
		var got []int
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			got = append(got, v)
		}
		return got
	}

	require.Equal(t, []int{1, 2, 3, 4, 5}, collect(it2))
	it3 := c.Iter()
	require.Equal(t, []int{1, 2, 3, 4, 5}, collect(it1))

	v, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.Equal(t, []int{1, 2, 3, 4, 5}, collect(it3))
	require.Equal(t, []int{2, 3, 4, 5}, collect(it))
}

func TestIteratorIndexAndLenAfterExhaustion(t *testing.T) {
	c := Of(1)
	it := c.Iter()

	v, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.Equal(t, 1, it.Index())
	require.Equal(t, it.Index(), it.Len())

	_, ok = it.Next()
	require.False(t, ok)
	require.Equal(t, 1, it.Index())
}

func TestIteratorIsEmptyIsFixedAtCreation(t *testing.T) {
	c := New[int]()
	it := c.Iter()
	require.True(t, it.IsEmpty())

	c.Append(1)
	it2 := c.Iter()
	require.False(t, it2.IsEmpty())
}
