package ffi

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// TestSingleThreadUsage mirrors the "Single-thread C implementation"
// example from the upstream FFI docs: append two values, take a
// snapshot iterator, clear, and confirm the iterator is unaffected.
func TestSingleThreadUsage(t *testing.T) {
	vs := chainvault_new(nil)
	require.NotZero(t, vs)
	require.Zero(t, chainvault_len(vs))

	a, b := 12, 25
	require.Zero(t, chainvault_append(vs, unsafe.Pointer(&a)))
	require.Zero(t, chainvault_append(vs, unsafe.Pointer(&b)))

	iter := chainvault_iter(vs)
	require.NotZero(t, iter)

	require.Zero(t, chainvault_clear(vs))
	require.Zero(t, chainvault_len(vs))
	require.EqualValues(t, 2, chainvault_iter_len(iter))

	require.Equal(t, unsafe.Pointer(&a), chainvault_iter_next(iter))
	require.EqualValues(t, 1, chainvault_iter_index(iter))
	require.Equal(t, unsafe.Pointer(&b), chainvault_iter_next(iter))
	require.EqualValues(t, 2, chainvault_iter_index(iter))

	require.Nil(t, chainvault_iter_next(iter))
	require.EqualValues(t, chainvault_iter_index(iter), chainvault_iter_len(iter))

	require.Zero(t, chainvault_iter_destroy(iter))

	iter2 := chainvault_iter(vs)
	require.Zero(t, chainvault_destroy(vs))

	require.EqualValues(t, 0, chainvault_iter_len(iter2))
	require.Nil(t, chainvault_iter_next(iter2))
	require.EqualValues(t, 0, chainvault_iter_index(iter2))

	require.Zero(t, chainvault_iter_destroy(iter2))
}

func TestNullHandlesArePropagated(t *testing.T) {
	const null = 0
	elem := 1
	require.EqualValues(t, 0, chainvault_len(null))
	require.EqualValues(t, 1, chainvault_append(null, unsafe.Pointer(&elem)))
	require.EqualValues(t, 1, chainvault_clear(null))
	require.Zero(t, chainvault_iter(null))
	require.Zero(t, chainvault_empty(null))
	require.EqualValues(t, 1, chainvault_destroy(null))

	require.Nil(t, chainvault_iter_next(null))
	require.EqualValues(t, 0, chainvault_iter_len(null))
	require.EqualValues(t, 0, chainvault_iter_index(null))
	require.EqualValues(t, 1, chainvault_iter_destroy(null))
}

func TestAppendRejectsNilElement(t *testing.T) {
	vs := chainvault_new(nil)
	require.EqualValues(t, 1, chainvault_append(vs, nil))
	require.Zero(t, chainvault_destroy(vs))
}

func TestSwapExchangesGenerations(t *testing.T) {
	vsA := chainvault_new(nil)
	vsB := chainvault_new(nil)
	a, b := 1, 2
	require.Zero(t, chainvault_append(vsA, unsafe.Pointer(&a)))
	require.Zero(t, chainvault_append(vsB, unsafe.Pointer(&b)))

	require.Zero(t, chainvault_swap(vsA, vsB))
	require.EqualValues(t, 1, chainvault_len(vsA))
	require.EqualValues(t, 1, chainvault_len(vsB))

	iterA := chainvault_iter(vsA)
	require.Equal(t, unsafe.Pointer(&b), chainvault_iter_next(iterA))

	require.Zero(t, chainvault_iter_destroy(iterA))
	require.Zero(t, chainvault_destroy(vsA))
	require.Zero(t, chainvault_destroy(vsB))
}

func TestEmptyDetachesAndReturnsIterator(t *testing.T) {
	vs := chainvault_new(nil)
	a := 5
	require.Zero(t, chainvault_append(vs, unsafe.Pointer(&a)))
	require.EqualValues(t, 1, chainvault_len(vs))

	iter := chainvault_empty(vs)
	require.EqualValues(t, 1, chainvault_iter_len(iter))
	require.EqualValues(t, 0, chainvault_len(vs))

	require.Zero(t, chainvault_iter_destroy(iter))
	require.Zero(t, chainvault_destroy(vs))
}
