package lfu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ivmalkov/polycache/policy"
)

func TestLFU_InvalidArguments(t *testing.T) {
	t.Parallel()

	_, err := New[string, string](0)
	require.ErrorIs(t, err, policy.ErrInvalidArgument)

	_, err = New[string, string](-3)
	require.ErrorIs(t, err, policy.ErrInvalidArgument)

	_, err = New[string, string](4, WithMaxAverage[string, string](0))
	require.ErrorIs(t, err, policy.ErrInvalidArgument)
}

// The least-frequent entry goes first; recency only breaks frequency ties.
func TestLFU_EvictsLeastFrequent(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c, err := New[int, string](2)
	require.NoError(err)

	c.Put(1, "A")
	c.Put(2, "B")
	c.Get(1)
	c.Get(1)

	c.Put(3, "C") // evicts 2: frequency 1 vs 3

	_, ok := c.Get(2)
	require.False(ok)

	v, ok := c.Get(1)
	require.True(ok)
	require.Equal("A", v)

	v, ok = c.Get(3)
	require.True(ok)
	require.Equal("C", v)
}

// At equal frequency the oldest entry in the bucket is the victim.
func TestLFU_TieBreaksByBucketOrder(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c, err := New[int, string](3)
	require.NoError(err)

	c.Put(1, "A")
	c.Put(2, "B")
	c.Put(3, "C")

	c.Put(4, "D") // all at frequency 1 → evicts 1, the oldest

	_, ok := c.Get(1)
	require.False(ok)
	for _, k := range []int{2, 3, 4} {
		_, ok := c.Get(k)
		require.True(ok)
	}
}

// Updates count as accesses and bump frequency.
func TestLFU_UpdateBumpsFrequency(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c, err := New[int, string](2)
	require.NoError(err)

	c.Put(1, "A")
	c.Put(2, "B")
	c.Put(1, "A2") // key 1 now at frequency 2

	c.Put(3, "C") // evicts 2

	_, ok := c.Get(2)
	require.False(ok)

	v, ok := c.Get(1)
	require.True(ok)
	require.Equal("A2", v)
}

// Aging decays hot frequencies so entries from a finished workload phase
// become evictable again.
func TestLFU_Aging(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c, err := New[int, string](3, WithMaxAverage[int, string](2))
	require.NoError(err)

	c.Put(1, "A")
	c.Put(2, "B")
	c.Put(3, "C")
	for _, k := range []int{1, 1, 2, 3, 3, 1, 2} {
		_, ok := c.Get(k)
		require.True(ok)
	}

	c.Put(4, "D") // after aging, key 3 sits in the lowest occupied bucket

	_, ok := c.Get(3)
	require.False(ok)

	v, ok := c.Get(1)
	require.True(ok)
	require.Equal("A", v)

	v, ok = c.Get(2)
	require.True(ok)
	require.Equal("B", v)

	v, ok = c.Get(4)
	require.True(ok)
	require.Equal("D", v)
}

// Decayed frequencies never drop below one, so every entry stays
// evictable and bucket accounting stays consistent.
func TestLFU_AgingFloorsAtOne(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c, err := New[int, int](2, WithMaxAverage[int, int](2))
	require.NoError(err)

	c.Put(1, 1)
	c.Put(2, 2)
	for i := 0; i < 10; i++ {
		c.Get(1) // key 1 runs hot and ages the cache repeatedly
	}
	// Key 2 sat at frequency 1; a decay of maxAvg/2 = 1 floors it at 1.
	require.Equal(1, c.index[2].Count)

	require.Equal(2, c.Len())
	_, ok := c.Get(1)
	require.True(ok)
	_, ok = c.Get(2)
	require.True(ok)

	// Still bounded: a third insert evicts exactly one entry.
	c.Put(3, 3)
	require.Equal(2, c.Len())
}

// Remove ignores absent keys by design.
func TestLFU_RemoveSilent(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c, err := New[string, int](2)
	require.NoError(err)

	c.Put("a", 1)
	require.NoError(c.Remove("a"))
	require.NoError(c.Remove("a"))
	require.NoError(c.Remove("ghost"))
	require.Equal(0, c.Len())
}

func TestLFU_Purge(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c, err := New[int, int](4, WithMaxAverage[int, int](10))
	require.NoError(err)

	for i := 0; i < 4; i++ {
		c.Put(i, i)
		c.Get(i)
	}
	c.Purge()

	require.Equal(0, c.Len())
	for i := 0; i < 4; i++ {
		_, ok := c.Get(i)
		require.False(ok)
	}

	// The cache is fully usable after a purge.
	c.Put(9, 9)
	v, ok := c.Get(9)
	require.True(ok)
	require.Equal(9, v)
}

func TestLFU_OnEvictCallback(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	var evicted []int
	c, err := New[int, string](2, WithOnEvict[int, string](func(k int, _ string) {
		evicted = append(evicted, k)
	}))
	require.NoError(err)

	c.Put(1, "A")
	c.Put(2, "B")
	c.Get(2)
	c.Put(3, "C") // evicts 1 (lowest frequency)

	require.Equal([]int{1}, evicted)
}
