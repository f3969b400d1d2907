// Package pool wraps sync.Pool with type safety. The UDP server recycles
// its fixed-size datagram read buffers through it.
package pool

import "sync"

// Pool is a generic wrapper around sync.Pool.
type Pool[T any] struct {
	internal sync.Pool
}

// New creates a new Pool with the given constructor.
func New[T any](newFn func() T) *Pool[T] {
	return &Pool[T]{
		internal: sync.Pool{
			New: func() any {
				return newFn()
			},
		},
	}
}

// Get retrieves an item from the pool.
func (p *Pool[T]) Get() T {
	return p.internal.Get().(T)
}

// Put returns an item to the pool.
func (p *Pool[T]) Put(item T) {
	p.internal.Put(item)
}

// NewBytes creates a pool of byte slices of a fixed size. Slices are pooled
// through a pointer to avoid an allocation per Put.
func NewBytes(size int) *Pool[*[]byte] {
	return New(func() *[]byte {
		buf := make([]byte, size)
		return &buf
	})
}
