// Package ffi exposes chainvault as a C ABI, grounded on the upstream
// Rust implementation's vs_* functions (see original_source/src/ffi.rs)
// renamed to chainvault_*. Handles are runtime/cgo.Handle values
// disguised as uintptr_t rather than raw Go pointers: cgo forbids
// storing a Go pointer to a Go pointer on the C side, and a Handle is
// the standard way around that.
//
// chainvault_t (*Container[unsafe.Pointer]) is thread-safe the same
// way the Go Container is; chainvault_iter_t can outlive the
// chainvault_t it was made from and isn't affected by
// chainvault_clear, but — like the upstream Iter — only one thread
// should touch a given iterator handle at a time.
package ffi

/*
#include <stdint.h>

typedef void (*chainvault_free_fn)(void *);

static inline void chainvault_call_free(chainvault_free_fn fn, void *ptr) {
	if (fn != 0) {
		fn(ptr);
	}
}
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/kaelfrost/chainvault"
)

type handle struct {
	container *chainvault.Container[unsafe.Pointer]
	free      C.chainvault_free_fn
}

type iterHandle struct {
	iter *chainvault.Iterator[unsafe.Pointer]
	free C.chainvault_free_fn
}

func destroy(values []unsafe.Pointer, free C.chainvault_free_fn) {
	if free == nil {
		return
	}
	for _, v := range values {
		C.chainvault_call_free(free, v)
	}
}

// chainvault_new creates an empty chainvault_t. free, if non-NULL, is
// invoked once per remaining element whenever the container (or an
// iterator sharing its last generation) is destroyed. The returned
// handle must eventually be passed to chainvault_destroy or it leaks.
//
//export chainvault_new
func chainvault_new(free C.chainvault_free_fn) C.uintptr_t {
	h := &handle{container: chainvault.New[unsafe.Pointer](), free: free}
	return C.uintptr_t(cgo.NewHandle(h))
}

// chainvault_len returns the container's current length, or 0 if vs
// is the NULL handle.
//
//export chainvault_len
func chainvault_len(vs C.uintptr_t) C.uint64_t {
	h, ok := lookup(vs)
	if !ok {
		return 0
	}
	return C.uint64_t(h.container.Len())
}

// chainvault_append adds element to vs. Returns 1 if vs is the NULL
// handle or element is NULL, 0 otherwise.
//
//export chainvault_append
func chainvault_append(vs C.uintptr_t, element unsafe.Pointer) C.uint8_t {
	h, ok := lookup(vs)
	if !ok || element == nil {
		return 1
	}
	h.container.Append(element)
	return 0
}

// chainvault_clear removes every element from vs, preserving any
// iterators already made from it. Returns 1 if vs is the NULL handle,
// 0 otherwise.
//
//export chainvault_clear
func chainvault_clear(vs C.uintptr_t) C.uint8_t {
	h, ok := lookup(vs)
	if !ok {
		return 1
	}
	if err := h.container.Clear(); err != nil {
		return 1
	}
	return 0
}

// chainvault_iter creates a lock-free iterator over vs's current
// generation. Returns the NULL handle if vs is the NULL handle.
//
//export chainvault_iter
func chainvault_iter(vs C.uintptr_t) C.uintptr_t {
	h, ok := lookup(vs)
	if !ok {
		return 0
	}
	ih := &iterHandle{iter: h.container.Iter(), free: h.free}
	return C.uintptr_t(cgo.NewHandle(ih))
}

// chainvault_empty clears vs and returns an iterator over what it
// held just before. Returns the NULL handle if vs is the NULL handle.
//
//export chainvault_empty
func chainvault_empty(vs C.uintptr_t) C.uintptr_t {
	h, ok := lookup(vs)
	if !ok {
		return 0
	}
	it, err := h.container.Empty()
	if err != nil {
		return 0
	}
	ih := &iterHandle{iter: it, free: h.free}
	return C.uintptr_t(cgo.NewHandle(ih))
}

// chainvault_swap exchanges the current generations of a and b.
// Returns 1 if either handle is NULL or the swap hit a poisoned
// container, 0 otherwise.
//
//export chainvault_swap
func chainvault_swap(a, b C.uintptr_t) C.uint8_t {
	ha, ok := lookup(a)
	if !ok {
		return 1
	}
	hb, ok := lookup(b)
	if !ok {
		return 1
	}
	if err := ha.container.Swap(hb.container); err != nil {
		return 1
	}
	return 0
}

// chainvault_destroy frees vs. If no iterator still shares its
// current generation, free (if non-NULL) is invoked once per
// remaining element. Returns 1 if vs is the NULL handle, 0 otherwise.
//
//export chainvault_destroy
func chainvault_destroy(vs C.uintptr_t) C.uint8_t {
	h, ok := lookup(vs)
	if !ok {
		return 1
	}
	cgo.Handle(vs).Delete()

	values, ok, err := h.container.TryUnwrap()
	if err == nil && ok {
		destroy(values, h.free)
	}
	return 0
}

// chainvault_iter_next returns the next element, or NULL once
// exhausted (or if iter is the NULL handle).
//
//export chainvault_iter_next
func chainvault_iter_next(iter C.uintptr_t) unsafe.Pointer {
	ih, ok := lookupIter(iter)
	if !ok {
		return nil
	}
	v, ok := ih.iter.Next()
	if !ok {
		return nil
	}
	return v
}

// chainvault_iter_len returns iter's current size (grows, never
// shrinks, and stops growing once iter is exhausted), or 0 if iter is
// the NULL handle.
//
//export chainvault_iter_len
func chainvault_iter_len(iter C.uintptr_t) C.uint64_t {
	ih, ok := lookupIter(iter)
	if !ok {
		return 0
	}
	return C.uint64_t(ih.iter.Len())
}

// chainvault_iter_index returns iter's current position, or 0 if iter
// is the NULL handle.
//
//export chainvault_iter_index
func chainvault_iter_index(iter C.uintptr_t) C.uint64_t {
	ih, ok := lookupIter(iter)
	if !ok {
		return 0
	}
	return C.uint64_t(ih.iter.Index())
}

// chainvault_iter_destroy frees iter, which may happen after the
// chainvault_t it was made from is itself destroyed. If this was the
// last handle sharing iter's generation, free (if non-NULL) is
// invoked once per element the generation ever held, from the start,
// not just the ones iter had not yet yielded. Returns 1 if iter is
// the NULL handle, 0 otherwise.
//
//export chainvault_iter_destroy
func chainvault_iter_destroy(iter C.uintptr_t) C.uint8_t {
	ih, ok := lookupIter(iter)
	if !ok {
		return 1
	}
	cgo.Handle(iter).Delete()

	values, ok := ih.iter.TryUnwrapAll()
	if ok {
		destroy(values, ih.free)
	}
	return 0
}

func lookup(h C.uintptr_t) (*handle, bool) {
	if h == 0 {
		return nil, false
	}
	v, ok := cgo.Handle(h).Value().(*handle)
	return v, ok
}

func lookupIter(h C.uintptr_t) (*iterHandle, bool) {
	if h == 0 {
		return nil, false
	}
	v, ok := cgo.Handle(h).Value().(*iterHandle)
	return v, ok
}
