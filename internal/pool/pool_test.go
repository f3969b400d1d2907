package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_GetUsesConstructor(t *testing.T) {
	p := New(func() int { return 42 })
	assert.Equal(t, 42, p.Get())
}

func TestPool_PutAndGet(t *testing.T) {
	type item struct{ n int }
	p := New(func() *item { return &item{} })

	it := p.Get()
	it.n = 7
	p.Put(it)
	// sync.Pool gives no reuse guarantee; either way the result is usable.
	got := p.Get()
	require.NotNil(t, got)
}

func TestNewBytes(t *testing.T) {
	p := NewBytes(512)
	buf := p.Get()
	require.NotNil(t, buf)
	assert.Len(t, *buf, 512)
	p.Put(buf)
}
