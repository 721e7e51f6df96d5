package fixedindex

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modelStore is a plain map reference implementation used to check Store.
type modelStore[T any] struct {
	Store map[uint64]T
	next  uint64
}

func newModelStore[T any]() *modelStore[T] {
	return &modelStore[T]{Store: make(map[uint64]T)}
}

func (m *modelStore[T]) Append(v T) uint64 {
	i := m.next
	m.Store[i] = v
	m.next++
	return i
}

func (m *modelStore[T]) Remove(i uint64) (T, bool) {
	v, ok := m.Store[i]
	delete(m.Store, i)
	return v, ok
}

func (m *modelStore[T]) Get(i uint64) (T, bool) {
	v, ok := m.Store[i]
	return v, ok
}

func (m *modelStore[T]) Clear() { clear(m.Store) }

func (m *modelStore[T]) Reset() {
	m.Clear()
	m.next = 0
}

func (m *modelStore[T]) Keys() []uint64 {
	var keys []uint64
	for k := range m.Store {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func assertMatchesModel(t *testing.T, m *modelStore[int], v *Vec[int]) {
	t.Helper()

	require.Equal(t, len(m.Store), v.Len())
	require.Equal(t, m.next, v.Next())
	require.LessOrEqual(t, uint64(v.Len()), v.Next())

	keys := m.Keys()
	require.Equal(t, keys, slices.Collect(v.Indices()))
	for i, val := range v.All() {
		require.Equal(t, m.Store[i], val)
	}

	fi, fv, fok := v.First()
	li, lv, lok := v.Last()
	require.Equal(t, len(keys) > 0, fok)
	require.Equal(t, len(keys) > 0, lok)
	if len(keys) > 0 {
		assert.Equal(t, keys[0], fi)
		assert.Equal(t, m.Store[keys[0]], fv)
		assert.Equal(t, keys[len(keys)-1], li)
		assert.Equal(t, m.Store[keys[len(keys)-1]], lv)
	}
}

func TestStoreMatchesModel(t *testing.T) {
	for _, degree := range []int{2, 3, defaultDegree} {
		rng := rand.New(rand.NewPCG(uint64(degree), 42))
		m := newModelStore[int]()
		v := New[int](WithDegree(degree))

		for step := 0; step < 5000; step++ {
			switch op := rng.IntN(100); {
			case op < 55:
				val := rng.Int()
				require.Equal(t, m.Append(val), v.Append(val))
			case op < 90:
				i := rng.Uint64N(m.next + 3)
				want, wantOK := m.Remove(i)
				got, gotOK := v.Remove(i)
				require.Equal(t, wantOK, gotOK)
				require.Equal(t, want, got)
			case op < 98:
				i := rng.Uint64N(m.next + 3)
				want, wantOK := m.Get(i)
				got, gotOK := v.Get(i)
				require.Equal(t, wantOK, gotOK)
				require.Equal(t, want, got)
				require.Equal(t, wantOK, v.Contains(i))
			case op < 99:
				m.Clear()
				v.Clear()
			default:
				m.Reset()
				v.Reset()
			}

			if step%50 == 0 {
				assertMatchesModel(t, m, v)
			}
		}
		assertMatchesModel(t, m, v)
	}
}
