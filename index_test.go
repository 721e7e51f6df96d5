package fixedindex

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lenKey(s string) int { return len(s) }

func TestIndexFind(t *testing.T) {
	idx := NewIndex(lenKey, cmp.Less[int])

	require.NoError(t, idx.Insert(4, "four"))
	require.NoError(t, idx.Insert(1, "one"))
	require.NoError(t, idx.Insert(2, "two"))
	require.NoError(t, idx.Insert(3, "three"))

	assert.Equal(t, []uint64{1, 2}, idx.Find(3))
	assert.Equal(t, []uint64{4}, idx.Find(4))
	assert.Nil(t, idx.Find(9))
	assert.Equal(t, 3, idx.Len())

	idx.Delete(1, "one")
	assert.Equal(t, []uint64{2}, idx.Find(3))
	idx.Delete(2, "two")
	assert.Nil(t, idx.Find(3))
	assert.Equal(t, 2, idx.Len())

	// Deleting something that is not there is harmless.
	idx.Delete(99, "xyz")
	idx.Delete(4, "four")
	assert.Equal(t, 1, idx.Len())
}

func TestIndexTraversal(t *testing.T) {
	idx := NewIndex(lenKey, cmp.Less[int])
	for h, s := range []string{"ccc", "a", "bb", "dd", "e"} {
		require.NoError(t, idx.Insert(uint64(h), s))
	}

	type pair struct {
		key    int
		handle uint64
	}
	gather := func(run func(fn func(int, uint64) bool)) []pair {
		var out []pair
		run(func(k int, h uint64) bool {
			out = append(out, pair{k, h})
			return true
		})
		return out
	}

	assert.Equal(t, []pair{{1, 1}, {1, 4}, {2, 2}, {2, 3}, {3, 0}}, gather(idx.Ascend))
	assert.Equal(t, []pair{{3, 0}, {2, 2}, {2, 3}, {1, 1}, {1, 4}}, gather(idx.Descend))
	assert.Equal(t, []pair{{1, 1}, {1, 4}}, gather(func(fn func(int, uint64) bool) {
		idx.AscendRange(1, 2, fn)
	}))
	assert.Equal(t, []pair{{2, 2}, {2, 3}, {3, 0}}, gather(func(fn func(int, uint64) bool) {
		idx.AscendGreaterOrEqual(2, fn)
	}))

	// Stopping inside a key's handle set stops the whole walk.
	var n int
	idx.Ascend(func(int, uint64) bool {
		n++
		return n < 2
	})
	assert.Equal(t, 2, n)

	assert.Equal(t, "[1: 1 4, 2: 2 3, 3: 0]", idx.String())
}

func TestUniqueIndex(t *testing.T) {
	idx := NewUniqueIndex(func(s string) string { return s }, cmp.Less[string])

	require.NoError(t, idx.Insert(0, "a"))
	require.NoError(t, idx.Insert(1, "b"))
	require.NoError(t, idx.Insert(0, "a"))

	err := idx.Insert(2, "a")
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, []uint64{0}, idx.Find("a"))

	idx.Delete(0, "a")
	require.NoError(t, idx.Insert(2, "a"))
	assert.Equal(t, []uint64{2}, idx.Find("a"))

	idx.Clear()
	assert.Equal(t, 0, idx.Len())
	assert.Nil(t, idx.Find("b"))
}
