package cache

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestGetPutRoundTrip(t *testing.T) {
	c := New(2)
	_, ok := c.Get(1)
	expect.False(t, ok)

	c.Put(1, "a")
	v, ok := c.Get(1)
	expect.True(t, ok)
	expect.EQ(t, v, "a")
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	c.Put(1, "a")
	c.Put(2, "b")
	// Touch 1 so 2 becomes the LRU entry.
	c.Get(1)
	c.Put(3, "c")

	_, ok := c.Get(2)
	expect.False(t, ok)
	v, ok := c.Get(1)
	expect.True(t, ok)
	expect.EQ(t, v, "a")
	v, ok = c.Get(3)
	expect.True(t, ok)
	expect.EQ(t, v, "c")
	expect.EQ(t, c.Len(), 2)
}

func TestDisabledWhenZeroSize(t *testing.T) {
	c := New(0)
	c.Put(1, "a")
	_, ok := c.Get(1)
	expect.False(t, ok)
	expect.EQ(t, c.Len(), 0)
}
