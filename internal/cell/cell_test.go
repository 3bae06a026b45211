package cell

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwapStoreLoad(t *testing.T) {
	var c Swap[int]
	require.Nil(t, c.Load())

	a := 1
	c.Store(&a)
	require.Equal(t, &a, c.Load())

	b := 2
	old := c.Swap(&b)
	require.Equal(t, &a, old)
	require.Equal(t, &b, c.Load())
}

func TestSwapTake(t *testing.T) {
	var c Swap[int]
	v := 7
	c.Store(&v)

	taken := c.Take()
	require.Equal(t, &v, taken)
	require.Nil(t, c.Load())
}

func TestFillOnceTryStoreOnce(t *testing.T) {
	var c FillOnce[int]
	v := 1
	require.NoError(t, c.TryStore(&v))
	require.True(t, c.Filled())

	w := 2
	err := c.TryStore(&w)
	require.ErrorIs(t, err, ErrAlreadyFilled)
	require.Equal(t, &v, c.Load())
}

func TestFillOnceDrain(t *testing.T) {
	var c FillOnce[int]
	require.False(t, c.Filled())

	v := 5
	require.NoError(t, c.TryStore(&v))

	drained := c.Drain()
	require.Equal(t, &v, drained)
	require.False(t, c.Filled())
	require.Nil(t, c.Load())
}

func TestFillOnceConcurrentTryStoreExactlyOneWinner(t *testing.T) {
	var c FillOnce[int]
	const n = 64

	var wg sync.WaitGroup
	wins := make([]bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := i
			wins[i] = c.TryStore(&v) == nil
		}(i)
	}
	wg.Wait()

	count := 0
	for _, w := range wins {
		if w {
			count++
		}
	}
	require.Equal(t, 1, count)
	require.True(t, c.Filled())
}
